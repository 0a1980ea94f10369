package reports

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestJobStoreCreateAndGet(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewJobStore(db)

	mock.ExpectExec("INSERT INTO `report_jobs`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Create(context.Background(), &Job{ID: "j1", Status: StatusPending})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "status", "object_key", "created_at"}).
		AddRow("j1", "pending", "", time.Now())
	mock.ExpectQuery("SELECT .* FROM `report_jobs` WHERE id = \\?").WillReturnRows(rows)

	job, err := store.Get(context.Background(), "j1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, StatusPending, job.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStoreGet_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewJobStore(db)

	mock.ExpectQuery("SELECT .* FROM `report_jobs` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	job, err := store.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobStoreSetStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewJobStore(db)

	mock.ExpectExec("UPDATE `report_jobs` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SetStatus(context.Background(), "j1", StatusDone, "reports/j1.json", "")
	assert.NoError(t, err)
}

func TestJobStoreListFinishedBefore(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewJobStore(db)

	rows := sqlmock.NewRows([]string{"id", "status", "object_key"}).
		AddRow("j1", "done", "reports/j1.json").
		AddRow("j2", "failed", "")
	mock.ExpectQuery("SELECT \\* FROM `report_jobs`").WillReturnRows(rows)

	jobs, err := store.ListFinishedBefore(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
}

func TestJobStoreDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewJobStore(db)

	mock.ExpectExec("DELETE FROM `report_jobs`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), "j1")
	assert.NoError(t, err)
}
