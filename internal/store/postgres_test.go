package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func TestPostgres_CreateRun(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO discovery_runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := st.CreateRun(context.Background(), testBusiness())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateRunStatus(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE discovery_runs SET status`).
		WithArgs("running", pgxmock.AnyArg(), "run-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.UpdateRunStatus(context.Background(), "run-123", model.RunStatusRunning)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateRunStatus_NotFound(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE discovery_runs SET status`).
		WithArgs("running", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.UpdateRunStatus(context.Background(), "missing", model.RunStatusRunning)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPostgres_CompleteRun_CopiesContacts(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE discovery_runs SET result`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "run-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"run_contacts"},
		[]string{"run_id", "name", "title", "email", "confidence", "source"}).
		WillReturnResult(1)

	err := st.CompleteRun(context.Background(), "run-123", testResult())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun_NoOwnersSkipsCopy(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE discovery_runs SET result`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "run-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.CompleteRun(context.Background(), "run-123", &model.DiscoveryResult{BusinessName: "Empty Result"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FailRun(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE discovery_runs SET error`).
		WithArgs("boom", "failed", pgxmock.AnyArg(), "run-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.FailRun(context.Background(), "run-123", "boom")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	bizJSON, err := json.Marshal(testBusiness())
	require.NoError(t, err)
	resultJSON, err := json.Marshal(testResult())
	require.NoError(t, err)
	now := time.Now().UTC()
	errText := ""

	mock.ExpectQuery(`SELECT id, business, status, result, error, created_at, updated_at FROM discovery_runs`).
		WithArgs("run-123").
		WillReturnRows(pgxmock.NewRows([]string{"id", "business", "status", "result", "error", "created_at", "updated_at"}).
			AddRow("run-123", bizJSON, "complete", resultJSON, &errText, now, now))

	run, err := st.GetRun(context.Background(), "run-123")
	require.NoError(t, err)
	assert.Equal(t, "run-123", run.ID)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, "Blue Door Cafe", run.Business.Name)
	require.NotNil(t, run.Result)
	assert.Equal(t, "bluedoorcafe.com", run.Result.Domain)
}

func TestPostgres_ListRuns_BuildsFilterQuery(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	bizJSON, err := json.Marshal(testBusiness())
	require.NoError(t, err)
	now := time.Now().UTC()
	errText := ""

	mock.ExpectQuery(`SELECT id, business, status, result, error, created_at, updated_at FROM discovery_runs WHERE status = \$1 AND business->>'name' ILIKE \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs("complete", "%Blue%", 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "business", "status", "result", "error", "created_at", "updated_at"}).
			AddRow("run-123", bizJSON, "complete", []byte(nil), &errText, now, now))

	runs, err := st.ListRuns(context.Background(), RunFilter{
		Status:   model.RunStatusComplete,
		Business: "Blue",
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-123", runs[0].ID)
	assert.Nil(t, runs[0].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListRuns_OffsetWithoutLimit(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT id, business, status, result, error, created_at, updated_at FROM discovery_runs ORDER BY created_at DESC OFFSET \$1`).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "business", "status", "result", "error", "created_at", "updated_at"}))

	runs, err := st.ListRuns(context.Background(), RunFilter{Offset: 20})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
