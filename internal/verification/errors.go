package verification

import "fmt"

// Reasons recorded on UnavailableError
const (
	ReasonTimeout     = "timeout"
	ReasonRequest     = "request failed"
	ReasonMalformed   = "malformed verdict"
	ReasonPrompt      = "prompt build failed"
	ReasonCircuitOpen = "circuit open"
	ReasonCancelled   = "cancelled"
)

// UnavailableError means no verdict could be obtained for one record.
// It is never fatal: callers fall back to the heuristic assessment.
type UnavailableError struct {
	CompanyID int64
	Reason    string
	Cause     error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("verifier unavailable for company %d: %s: %v", e.CompanyID, e.Reason, e.Cause)
	}
	return fmt.Sprintf("verifier unavailable for company %d: %s", e.CompanyID, e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
