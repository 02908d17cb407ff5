package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/lore/pkg/models"
)

func renderReport() *models.HistoryReport {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := models.NewOwnershipIndex()
	idx.Files["auth.py"] = models.ContributorCounts{"alice": 5, "bob": 1}
	idx.Files["main.go"] = models.ContributorCounts{"bob": 3}

	risks := &models.RiskAssessment{
		Findings: []models.RiskFinding{
			{
				Kind:      models.FindingSPOF,
				Subject:   "main.go",
				Level:     models.RiskMedium,
				Rationale: "bob is the only contributor across 3 commits",
			},
			{
				Kind:        models.FindingBusFactor,
				Contributor: "alice",
				Level:       models.RiskHigh,
				Rationale:   "alice is the primary owner of 12 files",
			},
		},
	}
	risks.CalculateSummary()

	return &models.HistoryReport{
		RepoPath:          "/src/demo",
		TotalCommits:      9,
		TotalContributors: 2,
		Categories: map[models.Category]int{
			models.CategoryFeature: 6,
			models.CategoryFix:     3,
		},
		Recent:        models.RecentActivity{WindowDays: 30, Commits: 2, ActiveAuthors: 1},
		Age:           models.ProjectAge{FirstCommit: base, LastCommit: base.AddDate(0, 6, 0), Days: 182},
		Ownership:     idx,
		Concentration: models.CalculateOwnershipStats(idx),
		Risks:         risks,
		Phases: []models.DevelopmentPhase{
			{
				Start:            base,
				End:              base.AddDate(0, 3, 0),
				Commits:          5,
				Authors:          2,
				DominantActivity: models.CategoryFeature,
				Velocity:         0.05,
			},
		},
		Stats: models.PhaseStats{MeanVelocity: 0.05},
	}
}

func TestBuildHistoryReportText(t *testing.T) {
	var buf bytes.Buffer
	report := BuildHistoryReport(renderReport(), "A compact two-person project.")

	require.NoError(t, report.RenderText(&buf, false))
	got := buf.String()

	assert.Contains(t, got, "Repository History Analysis")
	assert.Contains(t, got, "Repository: /src/demo")
	assert.Contains(t, got, "A compact two-person project.")
	assert.Contains(t, got, "auth.py")
	assert.Contains(t, got, "single_point_of_failure")
	assert.Contains(t, got, "feature")
}

func TestBuildHistoryReportWithoutNarrative(t *testing.T) {
	var buf bytes.Buffer
	report := BuildHistoryReport(renderReport(), "")

	require.NoError(t, report.RenderMarkdown(&buf))
	assert.NotContains(t, buf.String(), "Briefing")
}

func TestCategoryTableOrdering(t *testing.T) {
	table := CategoryTable(map[models.Category]int{
		models.CategoryFix:     3,
		models.CategoryFeature: 6,
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "feature", table.Rows[0][0])
	assert.Equal(t, "66.7%", table.Rows[0][2])
	assert.Equal(t, "fix", table.Rows[1][0])
	assert.Equal(t, []string{"Total", "9", ""}, table.Footer)
}

func TestOwnershipTableSortsByVolume(t *testing.T) {
	idx := models.NewOwnershipIndex()
	idx.Files["quiet.go"] = models.ContributorCounts{"bob": 1}
	idx.Files["busy.go"] = models.ContributorCounts{"alice": 9, "bob": 2}

	table := OwnershipTable(idx, models.CalculateOwnershipStats(idx))
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "busy.go", table.Rows[0][0])
	assert.Equal(t, "11", table.Rows[0][1])
	assert.Equal(t, "alice (9)", table.Rows[0][3])

	// Shares sorted ascending are 0.82 and 1.0; the empirical median is
	// the lower of the two.
	assert.Equal(t, "median 82%, p90 100%", table.Footer[3])
}

func TestOwnershipTableCapsRows(t *testing.T) {
	idx := models.NewOwnershipIndex()
	for i := 0; i < 30; i++ {
		idx.Files[strings.Repeat("a", i+1)+".go"] = models.ContributorCounts{"alice": 1}
	}

	table := OwnershipTable(idx, models.CalculateOwnershipStats(idx))
	assert.Len(t, table.Rows, maxOwnershipRows)
}

func TestRiskTableUsesContributorWhenNoSubject(t *testing.T) {
	assessment := &models.RiskAssessment{
		Findings: []models.RiskFinding{
			{Kind: models.FindingBusFactor, Contributor: "alice", Level: models.RiskHigh, Rationale: "r"},
		},
	}
	assessment.CalculateSummary()

	table := RiskTable(assessment)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "alice", table.Rows[0][1])
	assert.Equal(t, 2, table.LevelColumn)
}

func TestRiskTableEmpty(t *testing.T) {
	table := RiskTable(nil)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Footer)
}

func TestPhaseTable(t *testing.T) {
	report := renderReport()
	table := PhaseTable(report.Phases, report.Stats)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", table.Rows[0][0])
	assert.Equal(t, "feature", table.Rows[0][5])
	assert.Equal(t, "0.05", table.Rows[0][6])
}
