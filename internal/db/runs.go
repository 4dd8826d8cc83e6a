package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"go.uber.org/zap"
)

// runLockKey is the pg advisory lock key held for the duration of a remediation run
const runLockKey int64 = 0x6769676175646974 // "gigaudit"

// AcquireRunLock takes the session-level advisory lock on a dedicated
// connection. ok is false when another session holds it.
func (db *DB) AcquireRunLock(ctx context.Context) (func(), bool, error) {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, false, wrap("failed to acquire connection for run lock", err)
	}

	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, runLockKey).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, wrap("failed to take run lock", err)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultAuditTimeout)
		defer cancel()
		if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, runLockKey); err != nil {
			zap.L().Warn("db: failed to release run lock", zap.Error(err))
			// Closing the session drops the lock
			_ = conn.Conn().Close(ctx)
		}
		conn.Release()
	}
	return release, true, nil
}

// RecordRun writes the run and its actions to the audit trail in one transaction
func (db *DB) RecordRun(ctx context.Context, run *types.RunRecord) (err error) {
	// The audit entry is written even when the run itself was cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultAuditTimeout)
	defer cancel()

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return wrap("failed to marshal run summary", err)
	}

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO remediation_runs (id, started_at, finished_at, status, dry_run, summary)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.StartedAt, run.FinishedAt, run.Status, run.Summary.DryRun, summary,
	)
	if err != nil {
		return wrap("failed to insert remediation run", err)
	}

	rows := make([][]any, 0, len(run.Actions))
	for _, a := range run.Actions {
		var verdict []byte
		if a.SourceVerdict != nil {
			if verdict, err = json.Marshal(a.SourceVerdict); err != nil {
				return wrap("failed to marshal verdict", err)
			}
		}
		rows = append(rows, []any{
			run.ID, a.CompanyID, a.Name, string(a.Action), a.SourceScore, string(a.SourceTier), a.Reason, verdict,
		})
	}
	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"remediation_actions"},
			[]string{"run_id", "company_id", "name", "action", "source_score", "source_tier", "reason", "verdict"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return wrap("failed to insert remediation actions", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return wrap("failed to commit remediation run", err)
	}
	return nil
}

// RunSummary is one row of the audit trail listing
type RunSummary struct {
	ID         uuid.UUID                `json:"id"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Status     string                   `json:"status"`
	Summary    types.RemediationSummary `json:"summary"`
}

// ListRuns returns the most recent remediation runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, started_at, finished_at, status, summary
		 FROM remediation_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, wrap("failed to list runs", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var summary []byte
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &summary); err != nil {
			return nil, wrap("failed to scan run", err)
		}
		if err := json.Unmarshal(summary, &r.Summary); err != nil {
			return nil, wrap("failed to decode run summary", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("failed to list runs", err)
	}
	return runs, nil
}

// CountRunActions returns the number of audit rows recorded for a run
func (db *DB) CountRunActions(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM remediation_actions WHERE run_id = $1`, runID).Scan(&n)
	if err != nil {
		return 0, wrap("failed to count run actions", err)
	}
	return n, nil
}
