package reports

import (
	"bytes"
	"context"
	"errors"
	"io"
	gosync "sync"
	"testing"
	"time"

	"inventory-api/core/storage/mocks"
	"inventory-api/feature/assets"
	"inventory-api/feature/assets/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeJobStore is an in-memory JobStore. The render goroutine mutates jobs
// concurrently with the test's polling, hence the mutex.
type fakeJobStore struct {
	mu   gosync.Mutex
	jobs map[string]*Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[string]*Job{}}
}

func (s *fakeJobStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.jobs[job.ID] = &cp
	return nil
}

func (s *fakeJobStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (s *fakeJobStore) SetStatus(_ context.Context, id string, status Status, objectKey, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return errors.New("no such job")
	}
	job.Status = status
	job.ObjectKey = objectKey
	job.Error = errMsg
	return nil
}

func (s *fakeJobStore) ListFinishedBefore(_ context.Context, cutoff time.Time) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Job
	for _, job := range s.jobs {
		if job.Finished() && job.CreatedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *fakeJobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

// fakeSource serves a fixed asset listing.
type fakeSource struct {
	assets []models.Asset
	err    error
}

func (f *fakeSource) ListAssets(_ context.Context, fl assets.ListFilter) ([]models.Asset, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	total := int64(len(f.assets))
	if fl.Offset >= len(f.assets) {
		return []models.Asset{}, total, nil
	}
	end := fl.Offset + fl.Limit
	if end > len(f.assets) {
		end = len(f.assets)
	}
	return f.assets[fl.Offset:end], total, nil
}

func newTestService(jobs JobStore, source AssetSource, client *mocks.Client) *Service {
	return NewService(jobs, source, client, "test-bucket", Config{RetentionHours: 72}, zap.NewNop())
}

func TestSubmitRendersArtifact(t *testing.T) {
	jobs := newFakeJobStore()
	source := &fakeSource{assets: []models.Asset{
		{InternalID: "A1", Version: 2},
		{InternalID: "A2", Version: 1},
	}}
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newTestService(jobs, source, client)

	job, err := svc.Submit(context.Background(), assets.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)

	assert.Eventually(t, func() bool {
		got, _ := jobs.Get(context.Background(), job.ID)
		return got != nil && got.Status == StatusDone
	}, 2*time.Second, 10*time.Millisecond)

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "reports/"+job.ID+".json", got.ObjectKey)
	client.AssertCalled(t, "PutObject", mock.Anything, "test-bucket", got.ObjectKey, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSourceFailureMarksJobFailed(t *testing.T) {
	jobs := newFakeJobStore()
	source := &fakeSource{err: assert.AnError}
	client := new(mocks.Client)

	svc := newTestService(jobs, source, client)

	job, err := svc.Submit(context.Background(), assets.ListFilter{})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, _ := jobs.Get(context.Background(), job.ID)
		return got != nil && got.Status == StatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	got, _ := jobs.Get(context.Background(), job.ID)
	assert.NotEmpty(t, got.Error)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPoll_NotFound(t *testing.T) {
	svc := newTestService(newFakeJobStore(), &fakeSource{}, new(mocks.Client))

	_, err := svc.Poll(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchResult_NotReady(t *testing.T) {
	jobs := newFakeJobStore()
	require.NoError(t, jobs.Create(context.Background(), &Job{ID: "j1", Status: StatusRunning}))

	svc := newTestService(jobs, &fakeSource{}, new(mocks.Client))

	_, err := svc.FetchResult(context.Background(), "j1")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFetchResult(t *testing.T) {
	jobs := newFakeJobStore()
	require.NoError(t, jobs.Create(context.Background(), &Job{
		ID:        "j1",
		Status:    StatusDone,
		ObjectKey: "reports/j1.json",
	}))

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "test-bucket", "reports/j1.json", mock.Anything).
		Return(io.NopCloser(bytes.NewBufferString(`{"total":0}`)), nil)

	svc := newTestService(jobs, &fakeSource{}, client)

	reader, err := svc.FetchResult(context.Background(), "j1")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":0}`, string(data))
}

func TestExpire(t *testing.T) {
	jobs := newFakeJobStore()
	old := time.Now().Add(-100 * time.Hour)

	// Finished and stale, has an artifact.
	require.NoError(t, jobs.Create(context.Background(), &Job{
		ID: "old-done", Status: StatusDone, ObjectKey: "reports/old-done.json", CreatedAt: old,
	}))
	// Failed before producing an artifact; no object to remove.
	require.NoError(t, jobs.Create(context.Background(), &Job{
		ID: "old-failed", Status: StatusFailed, CreatedAt: old,
	}))
	// Fresh job stays.
	require.NoError(t, jobs.Create(context.Background(), &Job{
		ID: "fresh", Status: StatusDone, ObjectKey: "reports/fresh.json",
	}))

	client := new(mocks.Client)
	client.On("RemoveObject", mock.Anything, "test-bucket", "reports/old-done.json", mock.Anything).
		Return(nil)

	svc := newTestService(jobs, &fakeSource{}, client)

	removed, err := svc.Expire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	gone, _ := jobs.Get(context.Background(), "old-done")
	assert.Nil(t, gone)
	kept, _ := jobs.Get(context.Background(), "fresh")
	assert.NotNil(t, kept)
	client.AssertExpectations(t)
}
