package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halvard/lore/pkg/models"
)

// maxOwnershipRows caps the files shown in the ownership table.
const maxOwnershipRows = 20

// BuildHistoryReport assembles the full renderable report.
func BuildHistoryReport(report *models.HistoryReport, narrative string) *Report {
	r := &Report{
		Title: "Repository History Analysis",
		Data:  report,
	}

	r.Sections = append(r.Sections, overviewSection(report))
	if narrative != "" {
		r.Sections = append(r.Sections, &Section{Title: "Briefing", Content: narrative})
	}
	r.Sections = append(r.Sections, CategoryTable(report.Categories))
	r.Sections = append(r.Sections, OwnershipTable(report.Ownership, report.Concentration))
	r.Sections = append(r.Sections, RiskTable(report.Risks))
	if len(report.Phases) > 0 {
		r.Sections = append(r.Sections, PhaseTable(report.Phases, report.Stats))
	}
	return r
}

func overviewSection(report *models.HistoryReport) *Section {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(&b, "Commits: %d from %d contributors\n", report.TotalCommits, report.TotalContributors)
	if report.Age.Days > 0 {
		fmt.Fprintf(&b, "History span: %d days (%s to %s)\n",
			report.Age.Days,
			report.Age.FirstCommit.Format("2006-01-02"),
			report.Age.LastCommit.Format("2006-01-02"))
	}
	if report.Recent.WindowDays > 0 {
		fmt.Fprintf(&b, "Recent activity: %d commits by %d authors in the last %d days\n",
			report.Recent.Commits, report.Recent.ActiveAuthors, report.Recent.WindowDays)
	}
	if report.ReducedFidelity {
		b.WriteString("Note: file data reconstructed in reduced-fidelity mode\n")
	}
	return &Section{Title: "Overview", Content: strings.TrimRight(b.String(), "\n")}
}

// CategoryTable renders the commit classification histogram.
func CategoryTable(categories map[models.Category]int) *Table {
	cats := make([]models.Category, 0, len(categories))
	total := 0
	for c, n := range categories {
		cats = append(cats, c)
		total += n
	}
	sort.Slice(cats, func(i, j int) bool {
		if categories[cats[i]] == categories[cats[j]] {
			return cats[i] < cats[j]
		}
		return categories[cats[i]] > categories[cats[j]]
	})

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		share := 0.0
		if total > 0 {
			share = float64(categories[c]) / float64(total) * 100
		}
		rows = append(rows, []string{
			c.String(),
			fmt.Sprintf("%d", categories[c]),
			fmt.Sprintf("%.1f%%", share),
		})
	}

	return NewTable("Commit Categories",
		[]string{"Category", "Commits", "Share"},
		rows,
		[]string{"Total", fmt.Sprintf("%d", total), ""},
		categories)
}

// OwnershipTable renders the busiest files and their top contributor,
// with the concentration percentiles as the footer.
func OwnershipTable(idx *models.OwnershipIndex, stats models.OwnershipStats) *Table {
	headers := []string{"File", "Commits", "Contributors", "Top Contributor"}
	if idx == nil {
		return NewTable("File Ownership", headers, nil, nil, nil)
	}

	subjects := idx.Files.Subjects()
	sort.Slice(subjects, func(i, j int) bool {
		a, b := idx.Files[subjects[i]].Total(), idx.Files[subjects[j]].Total()
		if a == b {
			return subjects[i] < subjects[j]
		}
		return a > b
	})
	if len(subjects) > maxOwnershipRows {
		subjects = subjects[:maxOwnershipRows]
	}

	rows := make([][]string, 0, len(subjects))
	for _, subject := range subjects {
		counts := idx.Files[subject]
		top, topCount := counts.Top()
		rows = append(rows, []string{
			subject,
			fmt.Sprintf("%d", counts.Total()),
			fmt.Sprintf("%d", len(counts)),
			fmt.Sprintf("%s (%d)", top, topCount),
		})
	}

	footer := []string{
		"Top share", "", "",
		fmt.Sprintf("median %.0f%%, p90 %.0f%%", stats.MedianTopShare*100, stats.P90TopShare*100),
	}
	return NewTable("File Ownership", headers, rows, footer,
		map[string]any{"ownership": idx, "stats": stats})
}

// RiskTable renders the finding list. The level column is marked so the
// text renderer colors it by severity.
func RiskTable(assessment *models.RiskAssessment) *Table {
	headers := []string{"Kind", "Subject", "Level", "Detail"}
	if assessment == nil || len(assessment.Findings) == 0 {
		tbl := NewTable("Knowledge Risk", headers, nil, nil, assessment)
		tbl.LevelColumn = 2
		return tbl
	}

	rows := make([][]string, 0, len(assessment.Findings))
	for _, f := range assessment.Findings {
		subject := f.Subject
		if subject == "" {
			subject = f.Contributor
		}
		rows = append(rows, []string{
			f.Kind.String(),
			subject,
			f.Level.String(),
			f.Rationale,
		})
	}

	footer := []string{
		"Total", fmt.Sprintf("%d", assessment.Summary.TotalRisks),
		fmt.Sprintf("%d high", assessment.Summary.HighRiskSubjects),
		fmt.Sprintf("%d contributors at risk", assessment.Summary.ContributorsAtRisk),
	}
	tbl := NewTable("Knowledge Risk", headers, rows, footer, assessment)
	tbl.LevelColumn = 2
	return tbl
}

// PhaseTable renders the development timeline.
func PhaseTable(phases []models.DevelopmentPhase, stats models.PhaseStats) *Table {
	rows := make([][]string, 0, len(phases))
	for i, p := range phases {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			p.Start.Format("2006-01-02"),
			p.End.Format("2006-01-02"),
			fmt.Sprintf("%d", p.Commits),
			fmt.Sprintf("%d", p.Authors),
			p.DominantActivity.String(),
			fmt.Sprintf("%.2f", p.Velocity),
		})
	}

	footer := []string{
		"", "", "", "", "", "Mean velocity",
		fmt.Sprintf("%.2f ± %.2f", stats.MeanVelocity, stats.StdDevVelocity),
	}
	return NewTable("Development Timeline",
		[]string{"Phase", "Start", "End", "Commits", "Authors", "Activity", "Velocity/Day"},
		rows, footer,
		map[string]any{"phases": phases, "stats": stats})
}
