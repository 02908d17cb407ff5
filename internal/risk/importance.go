package risk

import (
	"strings"

	"github.com/halvard/lore/internal/locator"
)

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// importanceScore estimates how much a file matters on a roughly 0-100
// scale. Commit volume contributes up to 50 points; path heuristics add
// the rest, with deeply nested files discounted.
func importanceScore(path string, commits int) float64 {
	score := float64(commits) * 0.5
	if score > 50 {
		score = 50
	}

	lower := strings.ToLower(path)
	depth := strings.Count(lower, "/")

	if depth == 0 || containsAny(lower, "core", "main", "app") {
		score += 20
	}
	if containsAny(lower, "config", "settings") {
		score += 15
	}
	if containsAny(lower, "api", "server", "client") {
		score += 10
	}
	if locator.IsSourceFile(lower) {
		score += 5
	}

	if depth > 10 {
		depth = 10
	}
	score -= float64(depth)

	if score < 0 {
		score = 0
	}
	return score
}
