// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-ats/internal/consolidation"
	"github.com/jonathan/resume-ats/internal/pagefill"
	"github.com/jonathan/resume-ats/internal/regeneration"
	"github.com/jonathan/resume-ats/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, then a count of the rest
func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintJobProfile outputs a human-readable summary of the parsed job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:   %s\n", profile.Company)
	fmt.Fprintf(&sb, "Role:      %s\n", profile.RoleTitle)
	if profile.SeniorityLevel != "" {
		fmt.Fprintf(&sb, "Seniority: %s\n", profile.SeniorityLevel)
	}
	if profile.YearsRequired > 0 {
		fmt.Fprintf(&sb, "Years:     %d+\n", profile.YearsRequired)
	}
	sb.WriteString("\n")

	writeList(&sb, "Key Skills", profile.KeySkills, maxItemsToShow)
	writeList(&sb, "Nice-to-haves", profile.NiceToHave, 3)
	writeList(&sb, "Focus Areas", profile.FocusAreas, 3)

	p.printBox("PARSED JOB PROFILE", strings.TrimRight(sb.String(), "\n"))
}

// PrintScore outputs the component scores of a record
func (p *Printer) PrintScore(record types.ScoreRecord) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:        %3d/100 (%s)\n\n", record.Overall, record.Source)
	for _, row := range []struct {
		label string
		value int
	}{
		{"Keyword match", record.KeywordMatch},
		{"STAR", record.StarCompliance},
		{"Quantification", record.Quantification},
		{"Action verbs", record.ActionVerbStrength},
		{"Format", record.FormatCompliance},
		{"Sections", record.SectionCompleteness},
	} {
		fmt.Fprintf(&sb, "%-15s %3d %s\n", row.label+":", row.value, bar(row.value))
	}
	sb.WriteString("\n")

	writeList(&sb, "Missing Keywords", record.MissingKeywords, maxItemsToShow)
	writeList(&sb, "Weak Bullets", record.WeakBullets, 3)
	writeList(&sb, "Suggestions", record.Suggestions, 3)

	p.printBox("ATS SCORE", strings.TrimRight(sb.String(), "\n"))
}

// bar renders a score as a 20-cell bar
func bar(score int) string {
	filled := max(0, min(20, score/5))
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

// PrintPlan outputs the bullet allotment of a content plan
func (p *Printer) PrintPlan(plan types.ContentPlan) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target pages:  %d\n", plan.TargetPages)
	fmt.Fprintf(&sb, "Bullet budget: %d (%d allotted)\n\n", plan.MaxBullets, plan.TotalBullets)

	for _, a := range plan.Allotments {
		fmt.Fprintf(&sb, "%2d  %s\n", a.Bullets, a.Company)
	}
	if len(plan.Allotments) > 0 {
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Sections: %s", strings.Join(plan.SectionsPriority, ", "))

	p.printBox("CONTENT PLAN", sb.String())
}

// PrintPageFill outputs a page fill report
func (p *Printer) PrintPageFill(report pagefill.Report) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Status: %s\n", report.Status)
	fmt.Fprintf(&sb, "Pages:  %d\n", report.Pages)
	for i, fill := range report.PageFills {
		fmt.Fprintf(&sb, "  page %d: %5.1f%%\n", i+1, fill)
	}
	if report.Suggestion != "" {
		fmt.Fprintf(&sb, "\n%s", report.Suggestion)
	}

	p.printBox("PAGE FILL", strings.TrimRight(sb.String(), "\n"))
}

// PrintConsolidation outputs the bullets a consolidation pass removed
func (p *Printer) PrintConsolidation(report consolidation.Report) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Removed %d bullets, polished %d\n\n", len(report.Removed), report.Polished)

	removed := make([]string, len(report.Removed))
	for i, b := range report.Removed {
		removed[i] = b.Text
	}
	writeList(&sb, "Removed", removed, maxItemsToShow)
	if report.PolishError != "" {
		fmt.Fprintf(&sb, "Polish skipped: %s\n", report.PolishError)
	}

	p.printBox("CONSOLIDATION", strings.TrimRight(sb.String(), "\n"))
}

// PrintEvent outputs one progress line
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEvent(e regeneration.Event) {
	fmt.Fprintf(p.out, "[%-13s] %s\n", e.Stage, e.Message)
}

// PrintResult outputs the outcome of a regeneration run
func (p *Printer) PrintResult(result *regeneration.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	status := "below target"
	if result.Reached {
		status = "target reached"
	}
	fmt.Fprintf(&sb, "Best score: %d/100 (%s)\n", result.Score.Overall, status)
	fmt.Fprintf(&sb, "Attempts:   %d\n", result.Attempts)

	progression := result.History.Progression()
	if len(progression) > 0 {
		steps := make([]string, len(progression))
		for i, s := range progression {
			steps[i] = fmt.Sprintf("%d", s)
		}
		fmt.Fprintf(&sb, "Scores:     %s\n", strings.Join(steps, " → "))
		fmt.Fprintf(&sb, "Average:    %.1f (%+d from first)\n", result.Stats.AverageScore, result.Stats.Improvement)
	}
	if result.Fill.Pages > 0 {
		fmt.Fprintf(&sb, "Pages:      %d (last %.0f%% full)\n", result.Fill.Pages, result.Fill.LastPageFill)
	}

	p.printBox("TAILORING RESULT", strings.TrimRight(sb.String(), "\n"))
}
