package assets

import (
	"context"
	"testing"
	"time"

	"inventory-api/feature/assets/models"
	"inventory-api/feature/assets/sync"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	// Same options the app opens the real connection with.
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStoreGetByInternalID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	tag := "BC-1001"
	rows := sqlmock.NewRows([]string{"internal_id", "external_tag", "version"}).
		AddRow("A1", tag, 3)
	mock.ExpectQuery("SELECT .* FROM `assets` WHERE internal_id = \\?").
		WillReturnRows(rows)

	stored, err := store.GetByInternalID(context.Background(), "A1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "A1", stored.InternalID)
	assert.Equal(t, int64(3), stored.Version)
	require.NotNil(t, stored.ExternalTag)
	assert.Equal(t, tag, *stored.ExternalTag)
}

func TestStoreGetByInternalID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT .* FROM `assets` WHERE internal_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"internal_id", "external_tag", "version"}))

	stored, err := store.GetByInternalID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, stored)
}

func TestStoreOwnerOfTag(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT .* FROM `assets` WHERE external_tag = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"internal_id"}).AddRow("A1"))

	owner, err := store.OwnerOfTag(context.Background(), "BC-1001")
	assert.NoError(t, err)
	assert.Equal(t, "A1", owner)
}

func TestStoreOwnerOfTag_Unclaimed(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT .* FROM `assets` WHERE external_tag = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"internal_id"}))

	owner, err := store.OwnerOfTag(context.Background(), "BC-9999")
	assert.NoError(t, err)
	assert.Equal(t, "", owner)
}

func TestStoreInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("INSERT INTO `assets`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), sync.Record{
		InternalID: "A1",
		Version:    1,
		Payload:    models.Payload{Location: "dock 4"},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsert_DuplicateKey(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	// MySQL 1062 is translated to gorm.ErrDuplicatedKey by the connection's
	// TranslateError option, which the store maps to sync.ErrDuplicate.
	mock.ExpectExec("INSERT INTO `assets`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'A1'"})

	err := store.Insert(context.Background(), sync.Record{InternalID: "A1", Version: 1})
	assert.ErrorIs(t, err, sync.ErrDuplicate)
}

func TestStoreUpdateVersioned(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.UpdateVersioned(context.Background(), sync.Record{
		InternalID: "A1",
		Version:    3,
		Payload:    models.Payload{Location: "dock 5"},
	})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreUpdateVersioned_LostRace(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	// Version guard matched no row: someone else moved the version first.
	mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.UpdateVersioned(context.Background(), sync.Record{InternalID: "A1", Version: 3})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreUpdateVersioned_TagCollision(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE `assets` SET").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'BC-1001'"})

	ok, err := store.UpdateVersioned(context.Background(), sync.Record{InternalID: "A1", Version: 3})
	assert.ErrorIs(t, err, sync.ErrDuplicate)
	assert.False(t, ok)
}

func TestStoreList(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `assets`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "internal_id", "version", "status", "location"}).
		AddRow(2, "A2", 1, "active", "dock 4").
		AddRow(1, "A1", 5, "active", "yard 2")
	mock.ExpectQuery("SELECT \\* FROM `assets`").WillReturnRows(rows)

	out, total, err := store.List(context.Background(), ListFilter{Location: "dock 4"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, out, 2)
	assert.Equal(t, "A2", out[0].InternalID)
}

func TestStoreList_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	// No matches: the row query is skipped entirely.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `assets`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	out, total, err := store.List(context.Background(), ListFilter{Installer: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRetire(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.Retire(context.Background(), "A1")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreRetire_AlreadyRetired(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE `assets` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.Retire(context.Background(), "A1")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestQuarantineRecord(t *testing.T) {
	db, mock := setupMockDB(t)
	q := NewQuarantineStore(db)

	mock.ExpectExec("INSERT INTO `conflictive_assets`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	tag := "BC-1001"
	err := q.Record(context.Background(), sync.Record{
		InternalID:  "A1",
		ExternalTag: &tag,
		Version:     2,
		Payload:     models.Payload{Location: "yard 2"},
	}, sync.ReasonVersionMismatch)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuarantineList(t *testing.T) {
	db, mock := setupMockDB(t)
	q := NewQuarantineStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `conflictive_assets`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	rows := sqlmock.NewRows([]string{"id", "source_internal_id", "reason", "submitted_version", "created_at"}).
		AddRow(7, "A1", "version_mismatch", 2, time.Now())
	mock.ExpectQuery("SELECT \\* FROM `conflictive_assets`").WillReturnRows(rows)

	out, total, err := q.List(context.Background(), ConflictFilter{Reason: "version_mismatch"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, out, 1)
	assert.Equal(t, uint(7), out[0].ID)
	assert.Equal(t, "A1", out[0].SourceInternalID)
}

func TestQuarantineGet_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	q := NewQuarantineStore(db)

	mock.ExpectQuery("SELECT .* FROM `conflictive_assets` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := q.Get(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, row)
}

func TestQuarantineDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	q := NewQuarantineStore(db)

	mock.ExpectExec("DELETE FROM `conflictive_assets`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := q.Delete(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, ok)
}
