// Package validation defines the format-independent validation report shared
// by all source validators and converters. Errors mark a source as
// unconvertible; warnings and infos describe degradations the conversion can
// survive.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IssueCategory groups issues for reporting and filtering.
type IssueCategory string

const (
	CategorySyntaxError          IssueCategory = "syntax_error"
	CategoryEncodingError        IssueCategory = "encoding_error"
	CategoryMissingRequired      IssueCategory = "missing_required"
	CategoryInvalidReference     IssueCategory = "invalid_reference"
	CategoryInvalidStructure     IssueCategory = "invalid_structure"
	CategoryTypeMismatch         IssueCategory = "type_mismatch"
	CategoryNameTooLong          IssueCategory = "name_too_long"
	CategoryInvalidCharacter     IssueCategory = "invalid_character"
	CategoryConstraintViolation  IssueCategory = "constraint_violation"
	CategoryNameConflict         IssueCategory = "name_conflict"
	CategoryCircularReference    IssueCategory = "circular_reference"
	CategoryUnsupportedConstruct IssueCategory = "unsupported_construct"
	CategoryConversionLimitation IssueCategory = "conversion_limitation"
	CategoryPrecisionLoss        IssueCategory = "precision_loss"
	CategoryFabricCompatibility  IssueCategory = "fabric_compatibility"
	CategoryExternalDependency   IssueCategory = "external_dependency"
	CategoryUnresolvedImport     IssueCategory = "unresolved_import"
	CategoryBestPractice         IssueCategory = "best_practice"
	CategoryCustom               IssueCategory = "custom"
)

// Issue is a single validation finding.
type Issue struct {
	Severity       Severity      `json:"severity"`
	Category       IssueCategory `json:"category"`
	Message        string        `json:"message"`
	Location       string        `json:"location,omitempty"`
	Details        string        `json:"details,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
}

func (i Issue) String() string {
	s := fmt.Sprintf("%s [%s] %s", strings.ToUpper(string(i.Severity)), i.Category, i.Message)
	if i.Location != "" {
		s += fmt.Sprintf(" (at %s)", i.Location)
	}
	return s
}

// Result is the outcome of validating one source document. IsValid flips to
// false as soon as an error-severity issue is added; warnings and infos
// never block conversion.
type Result struct {
	FormatName string         `json:"format"`
	SourcePath string         `json:"source_path,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	IsValid    bool           `json:"is_valid"`
	Issues     []Issue        `json:"issues"`
	Statistics map[string]int `json:"statistics,omitempty"`
}

// NewResult returns a valid, empty result for a format.
func NewResult(formatName string) *Result {
	return &Result{
		FormatName: formatName,
		Timestamp:  time.Now().UTC(),
		IsValid:    true,
		Statistics: make(map[string]int),
	}
}

// Add appends a fully populated issue.
func (r *Result) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.IsValid = false
	}
}

// AddError appends an error issue and marks the result invalid.
func (r *Result) AddError(category IssueCategory, format string, args ...any) {
	r.Add(Issue{Severity: SeverityError, Category: category, Message: fmt.Sprintf(format, args...)})
}

// AddWarning appends a warning issue.
func (r *Result) AddWarning(category IssueCategory, format string, args ...any) {
	r.Add(Issue{Severity: SeverityWarning, Category: category, Message: fmt.Sprintf(format, args...)})
}

// AddInfo appends an informational issue.
func (r *Result) AddInfo(category IssueCategory, format string, args ...any) {
	r.Add(Issue{Severity: SeverityInfo, Category: category, Message: fmt.Sprintf(format, args...)})
}

// ErrorCount counts error-severity issues.
func (r *Result) ErrorCount() int { return r.countBySeverity(SeverityError) }

// WarningCount counts warning-severity issues.
func (r *Result) WarningCount() int { return r.countBySeverity(SeverityWarning) }

// InfoCount counts info-severity issues.
func (r *Result) InfoCount() int { return r.countBySeverity(SeverityInfo) }

func (r *Result) countBySeverity(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// TotalIssues counts all issues.
func (r *Result) TotalIssues() int { return len(r.Issues) }

// CanConvert reports whether conversion may proceed: no error issues.
func (r *Result) CanConvert() bool { return r.ErrorCount() == 0 }

// Errors returns all error-severity issues.
func (r *Result) Errors() []Issue { return r.filterBySeverity(SeverityError) }

// Warnings returns all warning-severity issues.
func (r *Result) Warnings() []Issue { return r.filterBySeverity(SeverityWarning) }

// Infos returns all info-severity issues.
func (r *Result) Infos() []Issue { return r.filterBySeverity(SeverityInfo) }

func (r *Result) filterBySeverity(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// ByCategory returns issue counts grouped by category.
func (r *Result) ByCategory() map[IssueCategory]int {
	counts := make(map[IssueCategory]int)
	for _, issue := range r.Issues {
		counts[issue.Category]++
	}
	return counts
}

// IssuesInCategory returns all issues in one category.
func (r *Result) IssuesInCategory(category IssueCategory) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

// SetStat records a named statistic (triple counts, class counts, ...).
func (r *Result) SetStat(key string, value int) {
	if r.Statistics == nil {
		r.Statistics = make(map[string]int)
	}
	r.Statistics[key] = value
}

// Stat reads a named statistic, zero when absent.
func (r *Result) Stat(key string) int {
	return r.Statistics[key]
}

// Merge folds another result's issues and statistics into this one.
// Validity is the conjunction of both. Statistics from other win on key
// collisions.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
	r.IsValid = r.IsValid && other.IsValid
	for k, v := range other.Statistics {
		r.SetStat(k, v)
	}
}

// Summary renders a short human-readable report.
func (r *Result) Summary() string {
	var b strings.Builder
	status := "VALID"
	if !r.IsValid {
		status = "INVALID"
	}
	fmt.Fprintf(&b, "Validation of %s source: %s\n", r.FormatName, status)
	fmt.Fprintf(&b, "  Errors: %d, Warnings: %d, Infos: %d", r.ErrorCount(), r.WarningCount(), r.InfoCount())
	const issueLimit = 10
	for i, issue := range r.Issues {
		if i == issueLimit {
			fmt.Fprintf(&b, "\n  ... and %d more", len(r.Issues)-issueLimit)
			break
		}
		fmt.Fprintf(&b, "\n  %s", issue)
	}
	return b.String()
}

// Combine merges multiple results into a fresh one under a combined name.
func Combine(formatName string, results ...*Result) *Result {
	combined := NewResult(formatName)
	for _, res := range results {
		combined.Merge(res)
	}
	return combined
}
