package remediation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/gig-directory-audit/internal/scoring"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"go.uber.org/zap"
)

// Store is the persistence the executor mutates. Each batch method must apply
// its ids in a single transaction and report how many rows it changed.
type Store interface {
	CountListedCompanies(ctx context.Context) (int, error)
	DeactivateCompanies(ctx context.Context, ids []int64) (types.BatchResult, error)
	DeleteCompanies(ctx context.Context, ids []int64) (types.BatchResult, error)
	// AcquireRunLock returns ok=false without error when another run holds the lock
	AcquireRunLock(ctx context.Context) (release func(), ok bool, err error)
	RecordRun(ctx context.Context, run *types.RunRecord) error
}

// Executor applies remediation actions to the store
type Executor struct {
	Store  Store
	DryRun bool
	// Cache, when set, drops memoized assessments of mutated companies
	Cache *scoring.Cache
	// Now is overridable for tests
	Now func() time.Time
}

// NewExecutor creates an Executor backed by store
func NewExecutor(store Store, dryRun bool, cache *scoring.Cache) *Executor {
	return &Executor{Store: store, DryRun: dryRun, Cache: cache, Now: time.Now}
}

// Execute applies actions under the run lock and records the run in the
// audit trail. Deactivations are applied before deletions; each is one
// batched call. Ids that need no change are counted as already applied.
func (e *Executor) Execute(ctx context.Context, actions []types.RemediationAction) (types.RemediationSummary, error) {
	return e.ExecuteRun(ctx, uuid.New(), actions)
}

// ExecuteRun is Execute with a caller-chosen run id for the audit trail
func (e *Executor) ExecuteRun(ctx context.Context, runID uuid.UUID, actions []types.RemediationAction) (types.RemediationSummary, error) {
	log := zap.L().With(zap.String("component", "remediation"))
	summary := types.RemediationSummary{DryRun: e.DryRun}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	release, ok, err := e.Store.AcquireRunLock(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return summary, ErrRunLocked
	}
	defer release()

	run := &types.RunRecord{
		ID:        runID,
		StartedAt: e.now(),
		Actions:   actions,
	}

	before, err := e.Store.CountListedCompanies(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to count listed companies: %w", err)
	}
	summary.Before = before

	deactivate, remove := groupIDs(actions)
	for _, a := range actions {
		if a.SourceTier.IsEscalatable() {
			summary.Flagged++
		}
	}
	summary.Requested = len(deactivate) + len(remove)

	if e.DryRun {
		summary.After = before
		run.Status = types.RunStatusDryRun
		e.record(ctx, run, summary)
		log.Info("remediation: dry run, no changes applied",
			zap.Int("requested", summary.Requested),
		)
		return summary, nil
	}

	var mutated []int64
	execErr := func() error {
		if err := e.apply(ctx, types.ActionDeactivate, deactivate, e.Store.DeactivateCompanies, &summary); err != nil {
			return err
		}
		mutated = append(mutated, deactivate...)
		if err := e.apply(ctx, types.ActionDelete, remove, e.Store.DeleteCompanies, &summary); err != nil {
			return err
		}
		mutated = append(mutated, remove...)
		return nil
	}()

	if e.Cache != nil && len(mutated) > 0 {
		e.Cache.Invalidate(mutated...)
	}

	after, countErr := e.Store.CountListedCompanies(ctx)
	if countErr != nil && execErr == nil {
		execErr = fmt.Errorf("failed to count listed companies: %w", countErr)
	}
	if countErr == nil {
		summary.After = after
	}

	switch {
	case execErr == nil:
		run.Status = types.RunStatusCompleted
	case isPartial(execErr) || summary.RemovedOrDeactivated > 0:
		run.Status = types.RunStatusPartial
	default:
		run.Status = types.RunStatusFailed
	}
	e.record(ctx, run, summary)

	if execErr != nil {
		return summary, execErr
	}
	log.Info("remediation: run complete",
		zap.String("run_id", run.ID.String()),
		zap.Int("deactivated", summary.Deactivated),
		zap.Int("deleted", summary.Deleted),
		zap.Int("already_applied", summary.AlreadyApplied),
	)
	return summary, nil
}

type batchFunc func(ctx context.Context, ids []int64) (types.BatchResult, error)

func (e *Executor) apply(ctx context.Context, action types.Action, ids []int64, fn batchFunc, summary *types.RemediationSummary) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := fn(ctx, ids)
	if err != nil {
		if summary.RemovedOrDeactivated > 0 || result.Affected > 0 {
			return &PartialBatchError{
				Action:         action,
				Requested:      summary.Requested,
				Affected:       summary.RemovedOrDeactivated + result.Affected,
				AlreadyApplied: summary.AlreadyApplied + result.AlreadyApplied,
				RolledBack:     result.RolledBack,
				Cause:          err,
			}
		}
		return fmt.Errorf("failed to %s companies: %w", actionVerb(action), err)
	}
	if result.Requested == 0 {
		result.Requested = len(ids)
	}
	if !result.Consistent() {
		return &PartialBatchError{
			Action:         action,
			Requested:      result.Requested,
			Affected:       result.Affected,
			AlreadyApplied: result.AlreadyApplied,
			RolledBack:     result.RolledBack,
		}
	}

	summary.RemovedOrDeactivated += result.Affected
	summary.AlreadyApplied += result.AlreadyApplied
	if action == types.ActionDelete {
		summary.Deleted += result.Affected
	} else {
		summary.Deactivated += result.Affected
	}
	return nil
}

// record writes the audit entry. A failed write is logged but does not undo
// or fail a run whose mutations already committed.
func (e *Executor) record(ctx context.Context, run *types.RunRecord, summary types.RemediationSummary) {
	run.FinishedAt = e.now()
	run.Summary = summary
	if err := e.Store.RecordRun(ctx, run); err != nil {
		zap.L().Error("remediation: failed to record run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// groupIDs returns the sorted, de-duplicated ids per mutating action.
// An id listed for both actions is only deleted.
func groupIDs(actions []types.RemediationAction) (deactivate, remove []int64) {
	deletes := make(map[int64]bool)
	deactivates := make(map[int64]bool)
	for _, a := range actions {
		switch a.Action {
		case types.ActionDelete:
			deletes[a.CompanyID] = true
		case types.ActionDeactivate:
			deactivates[a.CompanyID] = true
		}
	}
	for id := range deactivates {
		if !deletes[id] {
			deactivate = append(deactivate, id)
		}
	}
	for id := range deletes {
		remove = append(remove, id)
	}
	sort.Slice(deactivate, func(i, j int) bool { return deactivate[i] < deactivate[j] })
	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	return deactivate, remove
}

func isPartial(err error) bool {
	var partial *PartialBatchError
	return errors.As(err, &partial)
}

func actionVerb(a types.Action) string {
	if a == types.ActionDelete {
		return "delete"
	}
	return "deactivate"
}
