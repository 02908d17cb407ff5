// Package classify assigns intent categories to commit messages using
// ordered keyword heuristics.
package classify

import (
	"strings"

	"github.com/halvard/lore/pkg/models"
)

// rule pairs a category with its trigger keywords. Matching is
// case-insensitive substring search over the whole message.
type rule struct {
	category models.Category
	keywords []string
}

// commitRules is the commit-level priority list. Order is deliberate:
// feature keywords are checked before fix keywords because "fix" is a
// common substring of longer descriptive messages, and over-classifying
// substantive work as mere fixes skews every downstream histogram.
var commitRules = []rule{
	{models.CategoryFeature, []string{"feat", "feature", "add"}},
	{models.CategoryFix, []string{"fix", "bug", "patch"}},
	{models.CategoryRefactor, []string{"refactor", "refact", "clean"}},
	{models.CategoryDocs, []string{"doc", "docs", "documentation"}},
	{models.CategoryTest, []string{"test", "spec"}},
	{models.CategoryStyle, []string{"style", "format"}},
	{models.CategoryChore, []string{"chore", "maintenance", "update"}},
}

// phaseRules is the phase-context priority list. Initialization is checked
// first so project-bootstrap bursts are labeled as such, and the catch-all
// is maintenance rather than other.
var phaseRules = []rule{
	{models.CategoryInitialization, []string{"initial", "init", "start"}},
	{models.CategoryFeature, []string{"feat", "feature", "add", "new"}},
	{models.CategoryFix, []string{"fix", "bug", "patch"}},
	{models.CategoryRefactor, []string{"refactor", "clean", "improve"}},
	{models.CategoryTest, []string{"test", "spec"}},
}

// Commit returns the commit-level category for a message. The function is
// pure: identical input always yields the identical category, and no
// message is left unclassified.
func Commit(message string) models.Category {
	return match(commitRules, message, models.CategoryOther)
}

// Phase returns the phase-context category for a message.
func Phase(message string) models.Category {
	return match(phaseRules, message, models.CategoryMaintenance)
}

// PhasePriority returns the index of a category in the phase priority
// order. Lower is higher priority; unknown categories sort last. Used by
// the timeline segmenter to break dominant-activity ties.
func PhasePriority(c models.Category) int {
	for i, r := range phaseRules {
		if r.category == c {
			return i
		}
	}
	return len(phaseRules)
}

func match(rules []rule, message string, fallback models.Category) models.Category {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return fallback
}
