package models

// RiskLevel grades the severity of a finding.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) String() string { return string(r) }

// FindingKind identifies the variant of a risk finding.
type FindingKind string

const (
	FindingSPOF             FindingKind = "single_point_of_failure"
	FindingDominance        FindingKind = "dominance"
	FindingSilo             FindingKind = "knowledge_silo"
	FindingLimitedDiversity FindingKind = "limited_diversity"
	FindingBusFactor        FindingKind = "bus_factor"
)

func (k FindingKind) String() string { return string(k) }

// RiskFinding is one knowledge-concentration finding. Findings are pure
// outputs, recomputed in full on every analysis run.
type RiskFinding struct {
	Kind    FindingKind `json:"kind"`
	Subject string      `json:"subject,omitempty"`
	// Contributor is the sole/dominant contributor, or the at-risk person
	// for bus-factor findings.
	Contributor string `json:"contributor,omitempty"`
	// Contributors lists all contributors for limited-diversity findings.
	Contributors []string `json:"contributors,omitempty"`
	// Commits is the sole/dominant contributor's commit count, or the
	// number of plurality-owned subjects for bus-factor findings.
	Commits      int       `json:"commits"`
	TotalCommits int       `json:"total_commits,omitempty"`
	Ratio        float64   `json:"ratio,omitempty"`
	Importance   float64   `json:"importance,omitempty"`
	Level        RiskLevel `json:"level"`
	Rationale    string    `json:"rationale"`
	Mitigation   string    `json:"mitigation"`
}

// RiskSummary aggregates a finding set.
type RiskSummary struct {
	TotalRisks         int `json:"total_risks"`
	HighRiskSubjects   int `json:"high_risk_subjects"`
	ContributorsAtRisk int `json:"contributors_at_risk"`
}

// RiskAssessment is the full output of the knowledge risk engine.
type RiskAssessment struct {
	Findings []RiskFinding `json:"findings"`
	Summary  RiskSummary   `json:"summary"`
}

// CalculateSummary recomputes the summary from the finding set.
func (a *RiskAssessment) CalculateSummary() {
	s := RiskSummary{TotalRisks: len(a.Findings)}
	subjects := make(map[string]struct{})
	people := make(map[string]struct{})
	for _, f := range a.Findings {
		if f.Level == RiskHigh && f.Kind != FindingBusFactor {
			subjects[f.Subject] = struct{}{}
		}
		if f.Kind == FindingBusFactor {
			people[f.Contributor] = struct{}{}
		}
	}
	s.HighRiskSubjects = len(subjects)
	s.ContributorsAtRisk = len(people)
	a.Summary = s
}

// ByKind returns the findings of a single kind, preserving order.
func (a *RiskAssessment) ByKind(kind FindingKind) []RiskFinding {
	var out []RiskFinding
	for _, f := range a.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
