package models

import (
	"sort"
	"time"
)

// Commit is a single parsed commit record. It is created once by the log
// ingester and never mutated afterward.
type Commit struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	// Files lists paths changed by the commit. Empty when the ingester ran
	// in reduced-fidelity mode.
	Files []string `json:"files,omitempty"`
}

// SortCommitsByTime sorts commits ascending by timestamp, using the hash as
// a stable tiebreak for commits sharing a timestamp.
func SortCommitsByTime(commits []Commit) {
	sort.Slice(commits, func(i, j int) bool {
		if commits[i].Timestamp.Equal(commits[j].Timestamp) {
			return commits[i].Hash < commits[j].Hash
		}
		return commits[i].Timestamp.Before(commits[j].Timestamp)
	})
}

// Category is a commit intent classification label.
type Category string

const (
	CategoryFeature  Category = "feature"
	CategoryFix      Category = "fix"
	CategoryRefactor Category = "refactor"
	CategoryDocs     Category = "docs"
	CategoryTest     Category = "test"
	CategoryStyle    Category = "style"
	CategoryChore    Category = "chore"
	CategoryOther    Category = "other"

	// Phase-context categories. The phase classifier checks initialization
	// before everything else and labels its catch-all maintenance.
	CategoryInitialization Category = "initialization"
	CategoryMaintenance    Category = "maintenance"
)

func (c Category) String() string { return string(c) }
