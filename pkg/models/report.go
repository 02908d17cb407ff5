package models

import "time"

// ContributorPattern summarizes one contributor's commit behavior.
type ContributorPattern struct {
	Commits           int              `json:"commits"`
	AvgFilesPerCommit float64          `json:"avg_files_per_commit"`
	Categories        map[Category]int `json:"categories"`
}

// RecentActivity summarizes commits inside a trailing window.
type RecentActivity struct {
	WindowDays    int            `json:"window_days"`
	Commits       int            `json:"commits"`
	ActiveAuthors int            `json:"active_authors"`
	ByAuthor      map[string]int `json:"by_author,omitempty"`
}

// ProjectAge describes the time span covered by the analyzed history.
type ProjectAge struct {
	FirstCommit time.Time `json:"first_commit"`
	LastCommit  time.Time `json:"last_commit"`
	Days        int       `json:"days"`
}

// HistoryReport is the complete result of a history analysis run. It is the
// unit cached by the result store and handed to presentation code.
type HistoryReport struct {
	GeneratedAt       time.Time `json:"generated_at"`
	RepoPath          string    `json:"repo_path"`
	TotalCommits      int       `json:"total_commits"`
	TotalContributors int       `json:"total_contributors"`
	ReducedFidelity   bool      `json:"reduced_fidelity,omitempty"`

	Categories   map[Category]int              `json:"categories"`
	Contributors map[string]ContributorPattern `json:"contributors"`
	Recent       RecentActivity                `json:"recent_activity"`
	Age          ProjectAge                    `json:"project_age"`

	Ownership     *OwnershipIndex    `json:"ownership"`
	Concentration OwnershipStats     `json:"ownership_stats"`
	Risks         *RiskAssessment    `json:"risks"`
	Phases        []DevelopmentPhase `json:"phases"`
	Stats         PhaseStats         `json:"phase_stats"`
}
