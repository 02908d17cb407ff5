// Package risk derives knowledge-concentration findings from ownership
// data: files with one owner, dominated files and technologies, and
// contributors whose departure would strand large parts of the history.
package risk

import (
	"context"
	"fmt"

	"github.com/halvard/lore/pkg/models"
)

const (
	// fileDominanceThreshold is the strict lower bound for a dominance
	// finding on a file subject.
	fileDominanceThreshold = 0.80
	// techDominanceThreshold is looser: a technology naturally has
	// fewer, more senior contributors.
	techDominanceThreshold = 0.75
	// Limited-diversity rule: enough history to matter, too few hands.
	diversityMinCommits      = 10
	diversityMaxContributors = 2

	checkEvery = 20
)

// Engine computes a RiskAssessment from an OwnershipIndex.
type Engine struct {
	fileThreshold float64
	techThreshold float64
	busFactorMin  int
	busFactorHigh int
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithFileDominanceThreshold overrides the file-level dominance bound.
func WithFileDominanceThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 && t < 1 {
			e.fileThreshold = t
		}
	}
}

// WithTechDominanceThreshold overrides the technology-level dominance bound.
func WithTechDominanceThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 && t < 1 {
			e.techThreshold = t
		}
	}
}

// WithBusFactorBounds overrides the plurality-ownership counts at which a
// contributor becomes a bus-factor risk and at which the risk is high.
func WithBusFactorBounds(min, high int) Option {
	return func(e *Engine) {
		if min > 0 {
			e.busFactorMin = min
		}
		if high >= min {
			e.busFactorHigh = high
		}
	}
}

// NewEngine creates a risk engine with default thresholds.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		fileThreshold: fileDominanceThreshold,
		techThreshold: techDominanceThreshold,
		busFactorMin:  busFactorMinSubjects,
		busFactorHigh: busFactorHighSubjects,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assess walks both ownership records and produces the full finding set.
// An empty index yields an empty assessment, never an error.
func (e *Engine) Assess(ctx context.Context, idx *models.OwnershipIndex) (*models.RiskAssessment, error) {
	assessment := &models.RiskAssessment{}
	if idx == nil {
		assessment.CalculateSummary()
		return assessment, nil
	}

	fileFindings, err := e.assessFiles(ctx, idx.Files)
	if err != nil {
		return nil, err
	}
	assessment.Findings = append(assessment.Findings, fileFindings...)

	siloFindings, err := e.assessTechnologies(ctx, idx.Technologies)
	if err != nil {
		return nil, err
	}
	assessment.Findings = append(assessment.Findings, siloFindings...)

	assessment.Findings = append(assessment.Findings, e.assessBusFactor(idx.Files)...)

	assessment.CalculateSummary()
	return assessment, nil
}

func (e *Engine) assessFiles(ctx context.Context, files models.OwnershipRecord) ([]models.RiskFinding, error) {
	var findings []models.RiskFinding

	for i, subject := range files.Subjects() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		counts := files[subject]
		total := counts.Total()
		top, topCount := counts.Top()
		level := levelFor(subject, total)

		switch {
		case len(counts) == 1:
			findings = append(findings, models.RiskFinding{
				Kind:         models.FindingSPOF,
				Subject:      subject,
				Contributor:  top,
				Commits:      topCount,
				TotalCommits: total,
				Ratio:        1.0,
				Importance:   importanceScore(subject, total),
				Level:        level,
				Rationale:    fmt.Sprintf("%s is the only contributor across %d commits", top, total),
				Mitigation:   fmt.Sprintf("pair a second contributor onto %s", subject),
			})
		case ratio(topCount, total) > e.fileThreshold:
			findings = append(findings, models.RiskFinding{
				Kind:         models.FindingDominance,
				Subject:      subject,
				Contributor:  top,
				Commits:      topCount,
				TotalCommits: total,
				Ratio:        ratio(topCount, total),
				Importance:   importanceScore(subject, total),
				Level:        level,
				Rationale:    fmt.Sprintf("%s authored %d of %d commits (%.0f%%)", top, topCount, total, ratio(topCount, total)*100),
				Mitigation:   fmt.Sprintf("route future changes to %s through other reviewers", subject),
			})
		}

		if total >= diversityMinCommits && len(counts) <= diversityMaxContributors {
			findings = append(findings, models.RiskFinding{
				Kind:         models.FindingLimitedDiversity,
				Subject:      subject,
				Contributors: counts.Ranked(),
				Commits:      topCount,
				TotalCommits: total,
				Importance:   importanceScore(subject, total),
				Level:        level,
				Rationale:    fmt.Sprintf("%d commits by only %d contributor(s)", total, len(counts)),
				Mitigation:   fmt.Sprintf("spread upcoming work on %s across the team", subject),
			})
		}
	}

	return findings, nil
}

func (e *Engine) assessTechnologies(ctx context.Context, techs models.OwnershipRecord) ([]models.RiskFinding, error) {
	var findings []models.RiskFinding

	for i, subject := range techs.Subjects() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		counts := techs[subject]
		if len(counts) < 2 {
			continue
		}
		total := counts.Total()
		top, topCount := counts.Top()
		r := ratio(topCount, total)
		if r <= e.techThreshold {
			continue
		}

		findings = append(findings, models.RiskFinding{
			Kind:         models.FindingSilo,
			Subject:      subject,
			Contributor:  top,
			Commits:      topCount,
			TotalCommits: total,
			Ratio:        r,
			Level:        volumeLevel(total),
			Rationale:    fmt.Sprintf("%s owns %.0f%% of all %s work", top, r*100, subject),
			Mitigation:   fmt.Sprintf("schedule %s knowledge-sharing sessions", subject),
		})
	}

	return findings, nil
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// volumeLevel grades a subject on commit volume alone. Technology tags
// have no path, so the importance score does not apply to them and the
// importance field stays zero on their findings.
func volumeLevel(commits int) models.RiskLevel {
	switch {
	case commits > 50:
		return models.RiskHigh
	case commits > 20:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// levelFor grades a file subject from its importance score and raw
// commit volume.
func levelFor(subject string, commits int) models.RiskLevel {
	importance := importanceScore(subject, commits)
	switch {
	case importance > 50 || commits > 50:
		return models.RiskHigh
	case importance > 25 || commits > 20:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
