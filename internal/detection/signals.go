package detection

import (
	"fmt"
	"strings"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

// PayRealism flags advertised pay above realistic gig-work rates
type PayRealism struct {
	cfg config.PayRealism
}

// NewPayRealism creates a pay-realism detector
func NewPayRealism(cfg config.PayRealism) *PayRealism {
	return &PayRealism{cfg: cfg}
}

// Name implements Detector
func (d *PayRealism) Name() string { return config.DetectorPayRealism }

// Detect implements Detector
func (d *PayRealism) Detect(record *types.CompanyRecord) []types.Flag {
	pay := record.Pay()
	if !pay.IsParsed() {
		return nil
	}

	var flags []types.Flag
	if pay.Exceeds(d.cfg.Threshold) {
		flags = append(flags, types.Flag{
			Detector: d.Name(),
			Weight:   d.cfg.Weight,
			Message:  fmt.Sprintf("Unrealistic pay: %s exceeds $%g", pay, d.cfg.Threshold),
		})
	}
	if pay.Exceeds(d.cfg.ExtremeThreshold) {
		flags = append(flags, types.Flag{
			Detector: d.Name(),
			Weight:   d.cfg.ExtremeWeight,
			Message:  fmt.Sprintf("Extremely high pay: %s exceeds $%g", pay, d.cfg.ExtremeThreshold),
		})
	}
	return flags
}

// ContactCompleteness flags records with no way to reach the company
type ContactCompleteness struct {
	cfg config.Contact
}

// NewContactCompleteness creates a contact-completeness detector
func NewContactCompleteness(cfg config.Contact) *ContactCompleteness {
	return &ContactCompleteness{cfg: cfg}
}

// Name implements Detector
func (d *ContactCompleteness) Name() string { return config.DetectorContact }

// Detect implements Detector
func (d *ContactCompleteness) Detect(record *types.CompanyRecord) []types.Flag {
	if record.HasContact() {
		return nil
	}
	return []types.Flag{{
		Detector: d.Name(),
		Weight:   d.cfg.Weight,
		Message:  "No contact information (website, phone, email)",
	}}
}

// GenericName flags promotional or generic terms in the company name.
// At most one flag is emitted per record, listing every matched term.
type GenericName struct {
	cfg     config.GenericName
	matcher termMatcher
}

// NewGenericName creates a generic-name detector
func NewGenericName(cfg config.GenericName) *GenericName {
	return &GenericName{cfg: cfg, matcher: newTermMatcher(cfg.Terms)}
}

// Name implements Detector
func (d *GenericName) Name() string { return config.DetectorGenericName }

// Detect implements Detector
func (d *GenericName) Detect(record *types.CompanyRecord) []types.Flag {
	found := d.matcher.matches(record.Name)
	if len(found) == 0 {
		return nil
	}
	return []types.Flag{{
		Detector: d.Name(),
		Weight:   d.cfg.Weight,
		Message:  fmt.Sprintf("Generic/promotional name terms: %s", strings.Join(found, ", ")),
	}}
}

// LicensingInconsistency flags "no license" or "no insurance" requirements
// paired with pay high enough to make the low barrier implausible.
type LicensingInconsistency struct {
	cfg config.Licensing
}

// NewLicensingInconsistency creates a licensing-inconsistency detector
func NewLicensingInconsistency(cfg config.Licensing) *LicensingInconsistency {
	return &LicensingInconsistency{cfg: cfg}
}

// Name implements Detector
func (d *LicensingInconsistency) Name() string { return config.DetectorLicensing }

// Detect implements Detector
func (d *LicensingInconsistency) Detect(record *types.CompanyRecord) []types.Flag {
	pay := record.Pay()
	if !pay.IsParsed() {
		return nil
	}

	var flags []types.Flag
	if readsAsNone(record.LicenseRequirements) && pay.Exceeds(d.cfg.PayFloor) {
		flags = append(flags, types.Flag{
			Detector: d.Name(),
			Weight:   d.cfg.Weight,
			Message:  fmt.Sprintf("No license required but pays %s", pay),
		})
	}
	if readsAsNone(record.InsuranceRequirements) && pay.Exceeds(d.cfg.InsurancePayFloor) {
		flags = append(flags, types.Flag{
			Detector: d.Name(),
			Weight:   d.cfg.InsuranceWeight,
			Message:  fmt.Sprintf("No insurance required but pays %s", pay),
		})
	}
	return flags
}

// PlaceholderName flags names that are obviously test or filler data
type PlaceholderName struct {
	cfg    config.Placeholder
	tokens map[string]bool
}

// NewPlaceholderName creates a placeholder-name detector
func NewPlaceholderName(cfg config.Placeholder) *PlaceholderName {
	tokens := make(map[string]bool, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tokens[t] = true
		}
	}
	return &PlaceholderName{cfg: cfg, tokens: tokens}
}

// Name implements Detector
func (d *PlaceholderName) Name() string { return config.DetectorPlaceholder }

// Detect implements Detector
func (d *PlaceholderName) Detect(record *types.CompanyRecord) []types.Flag {
	name := strings.ToLower(strings.TrimSpace(record.Name))
	if name == "" {
		return nil
	}

	if isRepeatedLetter(name, d.cfg.MinRepeatRun) {
		return []types.Flag{d.flag(fmt.Sprintf("Placeholder name: repeated characters %q", record.Name))}
	}
	for _, w := range words(name) {
		if d.tokens[w] {
			return []types.Flag{d.flag(fmt.Sprintf("Placeholder name: contains %q", w))}
		}
	}
	return nil
}

func (d *PlaceholderName) flag(msg string) types.Flag {
	return types.Flag{Detector: d.Name(), Weight: d.cfg.Weight, Message: msg}
}

// isRepeatedLetter reports whether s (ignoring spaces) is a single letter
// repeated at least minRun times
func isRepeatedLetter(s string, minRun int) bool {
	runes := []rune(strings.ReplaceAll(s, " ", ""))
	if len(runes) < minRun {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return runes[0] >= 'a' && runes[0] <= 'z'
}

// VagueVertical flags records whose service verticals say nothing about the
// work: none at all, or only generic values such as "General"
type VagueVertical struct {
	cfg   config.VagueVertical
	terms map[string]bool
}

// NewVagueVertical creates a vague-vertical detector
func NewVagueVertical(cfg config.VagueVertical) *VagueVertical {
	terms := make(map[string]bool, len(cfg.Terms))
	for _, t := range cfg.Terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms[t] = true
		}
	}
	return &VagueVertical{cfg: cfg, terms: terms}
}

// Name implements Detector
func (d *VagueVertical) Name() string { return config.DetectorVertical }

// Detect implements Detector
func (d *VagueVertical) Detect(record *types.CompanyRecord) []types.Flag {
	for _, v := range record.ServiceVertical {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !d.terms[v] {
			return nil
		}
	}
	return []types.Flag{{
		Detector: d.Name(),
		Weight:   d.cfg.Weight,
		Message:  "Vague service type",
	}}
}
