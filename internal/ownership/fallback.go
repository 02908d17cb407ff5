package ownership

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/halvard/lore/internal/fileproc"
	"github.com/halvard/lore/internal/locator"
	"github.com/halvard/lore/pkg/models"
)

// buildFromFileHistory reconstructs file ownership by querying each file's
// history individually. It only inspects source files within a size window
// and caps both the file set and the history depth per file, trading
// completeness for a bounded runtime on large repositories.
func (ix *Indexer) buildFromFileHistory(ctx context.Context) (models.OwnershipRecord, error) {
	files, err := locator.SourceFiles(ix.repoPath, locator.Options{
		MaxFiles: ix.fallbackMaxFiles,
		MinSize:  ix.minFileSize,
		MaxSize:  ix.maxFileSize,
	})
	if err != nil {
		return nil, fmt.Errorf("locating source files: %w", err)
	}

	batches := fileproc.Batches(files, ix.batchSize)
	results, err := fileproc.MapBatchesWithResource(ctx, batches, ix.workers,
		func() (*git.Repository, error) {
			return git.PlainOpen(ix.repoPath)
		},
		nil,
		func(ctx context.Context, repo *git.Repository, batch []string) (models.OwnershipRecord, error) {
			record := make(models.OwnershipRecord)
			for _, path := range batch {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				counts, err := ix.fileAuthors(repo, path)
				if err != nil {
					// Renamed or never-committed files have no
					// reachable history; skip them.
					continue
				}
				if len(counts) > 0 {
					record[path] = counts
				}
			}
			return record, nil
		})
	if err != nil {
		return nil, err
	}

	record := make(models.OwnershipRecord)
	for _, sub := range results {
		record.Merge(sub)
	}
	return record, nil
}

// fileAuthors walks the history of a single file and counts commits per
// author, bounded by maxPerFileCommits.
func (ix *Indexer) fileAuthors(repo *git.Repository, path string) (models.ContributorCounts, error) {
	iter, err := repo.Log(&git.LogOptions{FileName: &path})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	counts := make(models.ContributorCounts)
	seen := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() > 1 {
			return nil
		}
		counts[c.Author.Name]++
		seen++
		if seen >= ix.maxPerFileCommits {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
