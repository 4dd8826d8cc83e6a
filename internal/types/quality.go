package types

// QualityIssueType identifies the kind of data-quality problem
type QualityIssueType string

// QualityIssueType values
const (
	IssueDescriptionMismatch QualityIssueType = "DESCRIPTION_MISMATCH"
	IssueMissingWebsite      QualityIssueType = "MISSING_WEBSITE"
	IssueInsufficientDesc    QualityIssueType = "INSUFFICIENT_DESCRIPTION"
	IssueWebsiteNameMismatch QualityIssueType = "WEBSITE_NAME_MISMATCH"
	IssueIncompleteProfile   QualityIssueType = "INCOMPLETE_PROFILE"
)

// Severity values shared by quality issues and coverage strategies
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// QualityIssue is one data-quality finding for a company
type QualityIssue struct {
	CompanyID  int64            `json:"company_id"`
	Type       QualityIssueType `json:"type"`
	Category   string           `json:"category,omitempty"`
	Severity   string           `json:"severity"`
	Message    string           `json:"message"`
	Suggestion string           `json:"suggestion"`
}

// SearchStrategy proposes search terms to fill a coverage gap
type SearchStrategy struct {
	Focus       string   `json:"focus"`
	Priority    string   `json:"priority"`
	SearchTerms []string `json:"search_terms"`
	TargetCount string   `json:"target_count"`
	Rationale   string   `json:"rationale"`
}

// IndustryLeader is a well-known company expected to be in the directory
type IndustryLeader struct {
	Name     string `json:"name" yaml:"name"`
	Website  string `json:"website" yaml:"website"`
	Vertical string `json:"vertical" yaml:"vertical"`
}

// CoverageReport summarizes category and region coverage of the directory
type CoverageReport struct {
	TotalCompanies   int              `json:"total_companies"`
	ByVertical       map[string]int   `json:"by_vertical"`
	ByRegion         map[string]int   `json:"by_region"`
	StatesCovered    int              `json:"states_covered"`
	Strategies       []SearchStrategy `json:"strategies"`
	MissingLeaders   []IndustryLeader `json:"missing_leaders"`
	PatternCounts    map[string]int   `json:"pattern_counts"`
	Underrepresented []string         `json:"underrepresented_patterns"`
	Recommendations  []GapAction      `json:"recommendations"`
}

// GapAction is a follow-up proposed by the gap analysis
type GapAction struct {
	Type      string   `json:"type"`
	Priority  string   `json:"priority"`
	Action    string   `json:"action"`
	Companies []string `json:"companies,omitempty"`
	Patterns  []string `json:"patterns,omitempty"`
	Schedule  string   `json:"schedule,omitempty"`
}
