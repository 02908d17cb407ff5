// Package ownership reconstructs per-file and per-technology contribution
// maps from the commit sequence.
package ownership

import (
	"context"

	"github.com/halvard/lore/internal/fileproc"
	"github.com/halvard/lore/pkg/models"
)

// checkEvery is how many processed items pass between cancellation polls.
const checkEvery = 20

// Indexer builds OwnershipIndex values for a repository.
type Indexer struct {
	repoPath          string
	fallbackMaxFiles  int
	minFileSize       int64
	maxFileSize       int64
	maxPerFileCommits int
	workers           int
	batchSize         int
}

// Option is a functional option for configuring an Indexer.
type Option func(*Indexer)

// WithFallbackMaxFiles caps how many files the fallback path inspects.
func WithFallbackMaxFiles(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.fallbackMaxFiles = n
		}
	}
}

// WithFileSizeBounds sets the size heuristic for the fallback path.
func WithFileSizeBounds(min, max int64) Option {
	return func(ix *Indexer) {
		if min > 0 {
			ix.minFileSize = min
		}
		if max > 0 {
			ix.maxFileSize = max
		}
	}
}

// WithWorkers sets the fallback worker count.
func WithWorkers(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// New creates an indexer for the repository at repoPath.
func New(repoPath string, opts ...Option) *Indexer {
	ix := &Indexer{
		repoPath:          repoPath,
		fallbackMaxFiles:  200,
		minFileSize:       100,
		maxFileSize:       1 << 20,
		maxPerFileCommits: 200,
		workers:           fileproc.DefaultWorkers,
		batchSize:         fileproc.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build constructs both ownership records from the commit sequence. Each
// commit contributes at most once per file regardless of how often the
// file appears in its change list. When no commit carries a file list the
// slower per-file history fallback is used instead.
func (ix *Indexer) Build(ctx context.Context, commits []models.Commit) (*models.OwnershipIndex, error) {
	idx := models.NewOwnershipIndex()

	hasFiles := false
	for i, c := range commits {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(c.Files) == 0 {
			continue
		}
		hasFiles = true
		seen := make(map[string]struct{}, len(c.Files))
		for _, f := range c.Files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			idx.Files.Add(f, c.Author)
		}
	}

	if !hasFiles && len(commits) > 0 {
		files, err := ix.buildFromFileHistory(ctx)
		if err != nil {
			return nil, err
		}
		idx.Files = files
		idx.ReducedFidelity = true
	}

	tech, err := ix.aggregateTechnologies(ctx, idx.Files)
	if err != nil {
		return nil, err
	}
	idx.Technologies = tech

	return idx, nil
}

// aggregateTechnologies folds file-level counts into technology buckets.
// Each technology is computed independently over the read-only file record
// by a bounded pool; the fold into the final record happens here, on the
// caller's goroutine.
func (ix *Indexer) aggregateTechnologies(ctx context.Context, files models.OwnershipRecord) (models.OwnershipRecord, error) {
	type techCounts struct {
		name   string
		counts models.ContributorCounts
	}

	batches := fileproc.Batches(Technologies(), 4)
	results, err := fileproc.MapBatches(ctx, batches, ix.workers,
		func(ctx context.Context, names []string) ([]techCounts, error) {
			var out []techCounts
			for _, name := range names {
				counts := make(models.ContributorCounts)
				for path, contributors := range files {
					tech, ok := TechnologyFor(path)
					if !ok || tech != name {
						continue
					}
					for author, n := range contributors {
						counts[author] += n
					}
				}
				if len(counts) > 0 {
					out = append(out, techCounts{name: name, counts: counts})
				}
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}

	record := make(models.OwnershipRecord)
	for _, sub := range results {
		for _, tc := range sub {
			record[tc.name] = tc.counts
		}
	}
	return record, nil
}
