package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/db"
	"github.com/sells-group/prospect-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS discovery_runs (
	id         UUID PRIMARY KEY,
	business   JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'queued',
	result     JSONB,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_contacts (
	run_id     UUID NOT NULL REFERENCES discovery_runs(id),
	name       TEXT NOT NULL,
	title      TEXT,
	email      TEXT,
	confidence INT,
	source     TEXT
);

CREATE INDEX IF NOT EXISTS idx_discovery_runs_status ON discovery_runs(status);
CREATE INDEX IF NOT EXISTS idx_run_contacts_run_id ON run_contacts(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, biz model.Business) (*model.DiscoveryRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	bizJSON, err := json.Marshal(biz)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal business")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO discovery_runs (id, business, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, bizJSON, string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.DiscoveryRun{
		ID:        id,
		Business:  biz,
		Status:    model.RunStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE discovery_runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

// CompleteRun stores the result JSON and mirrors the flattened contact
// list into run_contacts for SQL-side reporting.
func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.DiscoveryResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE discovery_runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}

	rows := make([][]any, 0, len(result.Owners))
	for _, o := range result.Owners {
		rows = append(rows, []any{runID, o.Name, o.Title, o.Email, o.EmailConfidence, string(o.Source)})
	}
	if _, err := db.CopyFrom(ctx, s.pool, "run_contacts",
		[]string{"run_id", "name", "title", "email", "confidence", "source"}, rows); err != nil {
		return eris.Wrapf(err, "postgres: copy contacts for run %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, cause string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE discovery_runs SET error = $1, status = $2, updated_at = $3 WHERE id = $4`,
		cause, string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.DiscoveryRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, business, status, result, error, created_at, updated_at FROM discovery_runs WHERE id = $1`,
		runID,
	)
	run, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: run %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.DiscoveryRun, error) {
	query := `SELECT id, business, status, result, error, created_at, updated_at FROM discovery_runs`
	var args []any

	argn := 0
	next := func(v any) string {
		argn++
		args = append(args, v)
		return "$" + strconv.Itoa(argn)
	}

	var where []string
	if filter.Status != "" {
		where = append(where, "status = "+next(string(filter.Status)))
	}
	if filter.Business != "" {
		where = append(where, "business->>'name' ILIKE "+next("%"+filter.Business+"%"))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + next(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.DiscoveryRun
	for rows.Next() {
		run, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPgRun(row pgx.Row) (*model.DiscoveryRun, error) {
	var (
		run        model.DiscoveryRun
		bizJSON    []byte
		status     string
		resultJSON []byte
		errText    *string
	)
	if err := row.Scan(&run.ID, &bizJSON, &status, &resultJSON, &errText, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bizJSON, &run.Business); err != nil {
		return nil, eris.Wrap(err, "unmarshal business")
	}
	run.Status = model.RunStatus(status)
	if len(resultJSON) > 0 {
		var result model.DiscoveryResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
		run.Result = &result
	}
	if errText != nil {
		run.Error = *errText
	}
	return &run, nil
}
