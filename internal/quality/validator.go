// Package quality reports data-quality issues and coverage gaps in the directory.
// Nothing in this package mutates records.
package quality

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

// Validator checks single records for inconsistent or missing data
type Validator struct {
	rules         []config.MismatchRule
	minWebsiteLen int
	minDescLen    int
	checkProfile  bool
}

// NewValidator creates a Validator from the quality configuration section
func NewValidator(cfg config.Quality) *Validator {
	rules := make([]config.MismatchRule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, config.MismatchRule{
			Category:         r.Category,
			NamePatterns:     lowerAll(r.NamePatterns),
			DescriptionTerms: lowerAll(r.DescriptionTerms),
		})
	}
	return &Validator{
		rules:         rules,
		minWebsiteLen: cfg.MinWebsiteLength,
		minDescLen:    cfg.MinDescriptionLength,
		checkProfile:  cfg.CheckProfile,
	}
}

// Validate returns the issues found in one record, in rule order followed by
// website, description, website/name and profile completeness checks
func (v *Validator) Validate(record *types.CompanyRecord) []types.QualityIssue {
	issues := []types.QualityIssue{}
	if record == nil {
		return issues
	}

	name := strings.ToLower(record.Name)
	description := strings.ToLower(types.Deref(record.Description))
	website := strings.ToLower(strings.TrimSpace(types.Deref(record.Website)))

	for _, rule := range v.rules {
		if containsAny(name, rule.NamePatterns) && containsAny(description, rule.DescriptionTerms) {
			issues = append(issues, types.QualityIssue{
				CompanyID:  record.ID,
				Type:       types.IssueDescriptionMismatch,
				Category:   rule.Category,
				Severity:   types.SeverityHigh,
				Message:    fmt.Sprintf("Company name suggests %s but description contains unrelated content", rule.Category),
				Suggestion: "Review and correct company description",
			})
		}
	}

	if len(website) < v.minWebsiteLen {
		issues = append(issues, types.QualityIssue{
			CompanyID:  record.ID,
			Type:       types.IssueMissingWebsite,
			Severity:   types.SeverityMedium,
			Message:    "Company is missing website information",
			Suggestion: "Research and add company website",
		})
	}

	if len(strings.TrimSpace(description)) < v.minDescLen {
		issues = append(issues, types.QualityIssue{
			CompanyID:  record.ID,
			Type:       types.IssueInsufficientDesc,
			Severity:   types.SeverityMedium,
			Message:    "Company description is too short or missing",
			Suggestion: "Add detailed company description",
		})
	}

	if website != "" && name != "" {
		nameWords := significantWords(name)
		if len(nameWords) > 0 && !containsAny(website, nameWords) {
			issues = append(issues, types.QualityIssue{
				CompanyID:  record.ID,
				Type:       types.IssueWebsiteNameMismatch,
				Severity:   types.SeverityMedium,
				Message:    "Website URL does not appear to match company name",
				Suggestion: "Verify website URL is correct for this company",
			})
		}
	}

	if v.checkProfile {
		if missing := record.MissingProfileFields(); len(missing) > 0 {
			issues = append(issues, types.QualityIssue{
				CompanyID:  record.ID,
				Type:       types.IssueIncompleteProfile,
				Severity:   types.SeverityLow,
				Message:    fmt.Sprintf("Company profile is missing %s", strings.Join(missing, ", ")),
				Suggestion: "Research and complete the company profile",
			})
		}
	}

	return issues
}

// RecordIssues groups the issues of one company
type RecordIssues struct {
	CompanyID int64                `json:"company_id"`
	Name      string               `json:"name"`
	Issues    []types.QualityIssue `json:"issues"`
}

// ValidateAll validates every record and returns only those with issues, in input order
func (v *Validator) ValidateAll(records []types.CompanyRecord) []RecordIssues {
	var out []RecordIssues
	for i := range records {
		issues := v.Validate(&records[i])
		if len(issues) == 0 {
			continue
		}
		out = append(out, RecordIssues{CompanyID: records[i].ID, Name: records[i].Name, Issues: issues})
	}
	return out
}

// CountBySeverity tallies issues across records
func CountBySeverity(results []RecordIssues) map[string]int {
	counts := map[string]int{}
	for _, r := range results {
		for _, issue := range r.Issues {
			counts[issue.Severity]++
		}
	}
	return counts
}

// significantWords splits on anything that is not a letter or digit and keeps
// words longer than two characters
func significantWords(name string) []string {
	var out []string
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range fields {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
