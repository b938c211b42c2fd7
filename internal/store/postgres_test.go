package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestPostgresStore_LoadDocument(t *testing.T) {
	db, mock := newMockDB(t)

	snap := models.NewSnapshot()
	snap.Routes = append(snap.Routes, models.Route{ID: "route-1", Name: "North Gate"})
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT document FROM snapshots WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(raw))

	st := &PostgresStore{db: db}
	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded.Routes, 1)
	assert.Equal(t, "North Gate", loaded.Routes[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_NoRowBootstraps(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT document FROM snapshots WHERE id = 1`).
		WillReturnError(sql.ErrNoRows)

	st := &PostgresStore{db: db}
	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Routes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MalformedDocumentFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT document FROM snapshots WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte("{broken")))

	st := &PostgresStore{db: db}
	_, err := st.Load(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStoreUnavailable))
}

func TestPostgresStore_SaveUpserts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	st := &PostgresStore{db: db}
	require.NoError(t, st.Save(context.Background(), models.NewSnapshot()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
