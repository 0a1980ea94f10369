package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		stored *Stored
		want   Classification
	}{
		{"NoStoredRecord", Record{InternalID: "A1", Version: 1}, nil, ClassCreate},
		{"VersionMatches", Record{InternalID: "A1", Version: 3}, &Stored{InternalID: "A1", Version: 3}, ClassAcceptUpdate},
		{"StaleVersion", Record{InternalID: "A1", Version: 2}, &Stored{InternalID: "A1", Version: 3}, ClassRejectVersionMismatch},
		{"FutureVersion", Record{InternalID: "A1", Version: 5}, &Stored{InternalID: "A1", Version: 3}, ClassRejectVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec, tt.stored))
		})
	}
}

func TestRecordValidate(t *testing.T) {
	empty := ""
	tag := "BC-001"

	tests := []struct {
		name   string
		rec    Record
		wantOK bool
	}{
		{"Valid", Record{InternalID: "A1", Version: 1}, true},
		{"ValidWithTag", Record{InternalID: "A1", Version: 2, ExternalTag: &tag}, true},
		{"MissingInternalID", Record{Version: 1}, false},
		{"ZeroVersion", Record{InternalID: "A1", Version: 0}, false},
		{"NegativeVersion", Record{InternalID: "A1", Version: -4}, false},
		{"EmptyTag", Record{InternalID: "A1", Version: 1, ExternalTag: &empty}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.rec.Validate()
			if tt.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}
