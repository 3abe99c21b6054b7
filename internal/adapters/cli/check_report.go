package cli

import (
	"fmt"
	"os"
	"time"
)

type Check struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type cliOutputWithColors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
}

type CheckIssue struct {
	Subject string
	Message string
	Details []string
}

// CheckReport collects the outcome of a series of environment checks and
// renders them once at the end.
type CheckReport struct {
	colors      cliOutputWithColors
	checks      []Check
	warnings    []CheckIssue
	errors      []CheckIssue
	startTime   time.Time
	hasFailures bool
}

func NewCheckReport(colors cliOutputWithColors) *CheckReport {
	return &CheckReport{
		colors:    colors,
		checks:    make([]Check, 0),
		warnings:  make([]CheckIssue, 0),
		errors:    make([]CheckIssue, 0),
		startTime: time.Now(),
	}
}

// Run executes one named check and records its outcome.
func (r *CheckReport) Run(name string, fn func() error) bool {
	check := Check{Name: name, StartTime: time.Now()}
	err := fn()
	check.EndTime = time.Now()
	check.Success = err == nil
	if err != nil {
		check.Error = err.Error()
		r.hasFailures = true
	}
	r.checks = append(r.checks, check)
	return check.Success
}

func (r *CheckReport) AddWarning(subject string, message string, details []string) {
	r.warnings = append(r.warnings, CheckIssue{
		Subject: subject,
		Message: message,
		Details: details,
	})
}

func (r *CheckReport) AddError(subject string, message string, details []string) {
	r.errors = append(r.errors, CheckIssue{
		Subject: subject,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *CheckReport) Render() {
	duration := time.Since(r.startTime)

	for _, check := range r.checks {
		status := r.colors.Green("✓")
		if !check.Success {
			status = r.colors.Red("✗")
		}
		fmt.Printf("  %s %s %s\n", status, check.Name,
			r.colors.Gray(formatDuration(check.EndTime.Sub(check.StartTime))))
		if check.Error != "" {
			fmt.Printf("      %s\n", check.Error)
		}
	}

	if len(r.errors) > 0 {
		fmt.Println()
		fmt.Fprintf(os.Stderr, "  "+r.colors.Red("✗ ")+"Problems (%d):\n", len(r.errors))
		r.renderIssues(r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Println()
		fmt.Printf("  "+r.colors.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderIssues(r.warnings)
	}

	fmt.Println()
	if r.hasFailures {
		fmt.Fprintf(os.Stderr, "  %s\n", r.colors.Red(fmt.Sprintf("Doctor found problems after %s", formatDuration(duration))))
	} else {
		fmt.Printf("  "+r.colors.Green("✓ ")+"All checks passed in %s\n", formatDuration(duration))
	}
}

func (r *CheckReport) renderIssues(issues []CheckIssue) {
	for _, issue := range issues {
		fmt.Printf("  %s %s\n", r.colors.Red("✗"), issue.Subject)
		fmt.Printf("    %s\n", issue.Message)

		deduplicated := deduplicateStrings(issue.Details)
		for _, detail := range deduplicated {
			fmt.Printf("      • %s\n", detail)
		}
	}
}

func (r *CheckReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	seen := make(map[string]int)
	for _, item := range items {
		seen[item]++
	}

	result := make([]string, 0, len(seen))
	for item, count := range seen {
		if count > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, count))
		} else {
			result = append(result, item)
		}
	}

	return result
}
