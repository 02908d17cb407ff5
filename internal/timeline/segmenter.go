// Package timeline partitions the commit history into development phases
// and derives per-phase activity and velocity.
package timeline

import (
	"github.com/halvard/lore/internal/classify"
	"github.com/halvard/lore/pkg/models"
)

const (
	// maxPhases caps how many phases a history is divided into.
	maxPhases = 5
	// minCommits is the history size below which segmentation is not
	// meaningful and no phases are produced.
	minCommits = 20
	// minChunk is the smallest viable trailing chunk. A smaller tail is
	// dropped rather than emitted as a degenerate phase.
	minChunk = 10
)

// Segmenter divides a commit sequence into phases.
type Segmenter struct {
	maxPhases  int
	minCommits int
	minChunk   int
}

// Option is a functional option for configuring a Segmenter.
type Option func(*Segmenter)

// WithMaxPhases overrides the phase cap.
func WithMaxPhases(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxPhases = n
		}
	}
}

// WithMinCommits overrides the minimum history size.
func WithMinCommits(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.minCommits = n
		}
	}
}

// New creates a segmenter with default bounds.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		maxPhases:  maxPhases,
		minCommits: minCommits,
		minChunk:   minChunk,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment sorts commits chronologically and slices them into contiguous
// phases of chunkSize commits each, where chunkSize keeps the phase count
// at or under the cap. Histories below the minimum size yield no phases.
func (s *Segmenter) Segment(commits []models.Commit) []models.DevelopmentPhase {
	if len(commits) < s.minCommits {
		return nil
	}

	sorted := make([]models.Commit, len(commits))
	copy(sorted, commits)
	models.SortCommitsByTime(sorted)

	chunkSize := len(sorted) / s.maxPhases
	if chunkSize < s.minCommits {
		chunkSize = s.minCommits
	}

	var phases []models.DevelopmentPhase
	for start := 0; start < len(sorted); start += chunkSize {
		end := start + chunkSize
		if end > len(sorted) {
			end = len(sorted)
		}
		chunk := sorted[start:end]
		if len(chunk) < s.minChunk {
			break
		}
		phases = append(phases, buildPhase(chunk))
	}
	return phases
}

func buildPhase(chunk []models.Commit) models.DevelopmentPhase {
	activities := make(map[models.Category]int)
	authors := make(map[string]struct{})
	for _, c := range chunk {
		activities[classify.Phase(c.Message)]++
		authors[c.Author] = struct{}{}
	}

	start := chunk[0].Timestamp
	end := chunk[len(chunk)-1].Timestamp
	days := int(end.Sub(start).Hours() / 24)

	divisor := days
	if divisor < 1 {
		divisor = 1
	}

	return models.DevelopmentPhase{
		Start:            start,
		End:              end,
		DurationDays:     days,
		Commits:          len(chunk),
		Authors:          len(authors),
		DominantActivity: dominantActivity(activities),
		Activities:       activities,
		Velocity:         float64(len(chunk)) / float64(divisor),
	}
}

// dominantActivity picks the highest-count category; ties resolve to the
// category the classifier checks first.
func dominantActivity(activities map[models.Category]int) models.Category {
	var best models.Category
	bestCount := -1
	for cat, n := range activities {
		if n > bestCount || (n == bestCount && classify.PhasePriority(cat) < classify.PhasePriority(best)) {
			best = cat
			bestCount = n
		}
	}
	return best
}
