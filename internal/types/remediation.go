package types

import (
	"time"

	"github.com/google/uuid"
)

// Action is the remediation applied to a company row
type Action string

// Action values
const (
	ActionNone       Action = "NONE"
	ActionDeactivate Action = "DEACTIVATE"
	ActionDelete     Action = "DELETE"
)

// RemediationAction is the final decision for one company
type RemediationAction struct {
	CompanyID     int64            `json:"company_id"`
	Name          string           `json:"name"`
	Action        Action           `json:"action"`
	SourceScore   int              `json:"source_score"`
	SourceTier    Tier             `json:"source_tier"`
	SourceVerdict *VerifierVerdict `json:"source_verdict,omitempty"`
	Reason        string           `json:"reason"`
}

// RemediationSummary reports before/after counts of one executor run
type RemediationSummary struct {
	Before               int  `json:"before"`
	Flagged              int  `json:"flagged"`
	Requested            int  `json:"requested"`
	RemovedOrDeactivated int  `json:"removed_or_deactivated"`
	Deactivated          int  `json:"deactivated"`
	Deleted              int  `json:"deleted"`
	AlreadyApplied       int  `json:"already_applied"`
	After                int  `json:"after"`
	DryRun               bool `json:"dry_run"`
}

// BatchResult is what the store reports for one batched mutation.
// AlreadyApplied counts ids that needed no change (already inactive or already gone).
type BatchResult struct {
	Requested      int  `json:"requested"`
	Affected       int  `json:"affected"`
	AlreadyApplied int  `json:"already_applied"`
	RolledBack     bool `json:"rolled_back"`
}

// Consistent reports whether every requested id is accounted for
func (b BatchResult) Consistent() bool {
	return !b.RolledBack && b.Requested == b.Affected+b.AlreadyApplied
}

// RunRecord is the audit trail entry written for each executor run
type RunRecord struct {
	ID         uuid.UUID           `json:"id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Status     string              `json:"status"`
	Summary    RemediationSummary  `json:"summary"`
	Actions    []RemediationAction `json:"actions"`
}

// Run status values
const (
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
	RunStatusDryRun    = "dry_run"
)
