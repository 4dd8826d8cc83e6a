// Package types provides type definitions for structured data used throughout the directory audit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// ActiveState is the listing state of a company row.
// The is_active column is nullable for legacy rows; NULL is kept distinct
// from an explicit true so audits can tell untouched rows apart.
type ActiveState int

const (
	// ActiveUnknown is a row whose is_active column is NULL
	ActiveUnknown ActiveState = iota
	// Active is a row explicitly marked is_active = true
	Active
	// Inactive is a soft-deleted row (is_active = false)
	Inactive
)

// ActiveStateFromNullable maps a nullable is_active column to an ActiveState
func ActiveStateFromNullable(v *bool) ActiveState {
	switch {
	case v == nil:
		return ActiveUnknown
	case *v:
		return Active
	default:
		return Inactive
	}
}

// IsListed reports whether the row appears in user-facing listings.
// NULL rows are treated as active.
func (s ActiveState) IsListed() bool {
	return s != Inactive
}

// String returns the lowercase name of the state
func (s ActiveState) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// CompanyRecord is one directory entry under evaluation.
// Optional free-text columns are pointers; nil means the column is NULL.
type CompanyRecord struct {
	ID                    int64       `json:"id"`
	Name                  string      `json:"name"`
	Website               *string     `json:"website,omitempty"`
	ContactPhone          *string     `json:"contact_phone,omitempty"`
	ContactEmail          *string     `json:"contact_email,omitempty"`
	ServiceVertical       []string    `json:"service_vertical"`
	ContractType          string      `json:"contract_type"`
	AveragePay            *string     `json:"average_pay,omitempty"`
	VehicleTypes          []string    `json:"vehicle_types,omitempty"`
	AreasServed           []string    `json:"areas_served,omitempty"`
	InsuranceRequirements *string     `json:"insurance_requirements,omitempty"`
	LicenseRequirements   *string     `json:"license_requirements,omitempty"`
	Description           *string     `json:"description,omitempty"`
	YearEstablished       *string     `json:"year_established,omitempty"`
	CompanySize           *string     `json:"company_size,omitempty"`
	Headquarters          *string     `json:"headquarters,omitempty"`
	BusinessModel         *string     `json:"business_model,omitempty"`
	Active                ActiveState `json:"active"`
	CreatedAt             *time.Time  `json:"created_at,omitempty"`
}

// Pay parses the free-text average pay into a PayRate
func (c *CompanyRecord) Pay() PayRate {
	return ParsePayRate(Deref(c.AveragePay))
}

// HasContact reports whether any of website, phone or email is present
func (c *CompanyRecord) HasContact() bool {
	return !IsBlank(c.Website) || !IsBlank(c.ContactPhone) || !IsBlank(c.ContactEmail)
}

// MissingProfileFields returns the column names of the blank company profile
// fields in a fixed order
func (c *CompanyRecord) MissingProfileFields() []string {
	var missing []string
	if IsBlank(c.YearEstablished) {
		missing = append(missing, "year_established")
	}
	if IsBlank(c.CompanySize) {
		missing = append(missing, "company_size")
	}
	if IsBlank(c.Headquarters) {
		missing = append(missing, "headquarters")
	}
	if IsBlank(c.BusinessModel) {
		missing = append(missing, "business_model")
	}
	return missing
}

// IsIncomplete reports whether any of the company profile columns is missing
func (c *CompanyRecord) IsIncomplete() bool {
	return len(c.MissingProfileFields()) > 0
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsBlank reports whether s is nil or only whitespace
func IsBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
