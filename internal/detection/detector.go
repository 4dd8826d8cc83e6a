// Package detection provides the heuristic signal detectors that inspect a
// company record and emit weighted flags.
package detection

import (
	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

// Detector inspects one record and returns zero or more flags.
// Implementations must be pure: the same record always yields the same flags,
// and missing fields yield no flag rather than an error.
type Detector interface {
	Name() string
	Detect(record *types.CompanyRecord) []types.Flag
}

// Set is an ordered registry of detectors.
// Register all detectors before calling Detect from multiple goroutines.
type Set struct {
	detectors []Detector
}

// NewSet creates a Set with the given detectors in order
func NewSet(detectors ...Detector) *Set {
	s := &Set{}
	for _, d := range detectors {
		s.Register(d)
	}
	return s
}

// Register appends a detector. Nil detectors are ignored.
func (s *Set) Register(d Detector) {
	if d == nil {
		return
	}
	s.detectors = append(s.detectors, d)
}

// Names returns detector names in registration order
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.detectors))
	for _, d := range s.detectors {
		names = append(names, d.Name())
	}
	return names
}

// Len returns the number of registered detectors
func (s *Set) Len() int {
	return len(s.detectors)
}

// Detect runs every detector and concatenates their flags in registration order.
// Flags with a non-positive weight are dropped, so a weight of 0 disables a signal.
func (s *Set) Detect(record *types.CompanyRecord) []types.Flag {
	flags := make([]types.Flag, 0)
	if record == nil {
		return flags
	}
	for _, d := range s.detectors {
		for _, f := range d.Detect(record) {
			if f.Weight <= 0 {
				continue
			}
			if f.Detector == "" {
				f.Detector = d.Name()
			}
			flags = append(flags, f)
		}
	}
	return flags
}

// DefaultSet builds the standard detectors from configuration
func DefaultSet(cfg config.Detectors) *Set {
	return NewSet(
		NewPayRealism(cfg.PayRealism),
		NewContactCompleteness(cfg.Contact),
		NewGenericName(cfg.GenericName),
		NewLicensingInconsistency(cfg.Licensing),
		NewPlaceholderName(cfg.Placeholder),
		NewVagueVertical(cfg.VagueVertical),
	)
}
