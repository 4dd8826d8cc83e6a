package remediation

import (
	"errors"
	"fmt"

	"github.com/jonathan/gig-directory-audit/internal/types"
)

// ErrRunLocked is returned when another remediation run holds the run lock
var ErrRunLocked = errors.New("another remediation run is in progress")

// PartialBatchError reports a batched mutation whose affected-row count does
// not account for every requested id
type PartialBatchError struct {
	Action         types.Action
	Requested      int
	Affected       int
	AlreadyApplied int
	RolledBack     bool
	Cause          error
}

func (e *PartialBatchError) Error() string {
	msg := fmt.Sprintf("partial %s batch: requested %d, affected %d, already applied %d",
		e.Action, e.Requested, e.Affected, e.AlreadyApplied)
	if e.RolledBack {
		msg += " (rolled back)"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *PartialBatchError) Unwrap() error {
	return e.Cause
}
