package ownership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/lore/pkg/models"
)

func commitAt(hash, author, message string, files ...string) models.Commit {
	return models.Commit{
		Hash:      hash,
		Author:    author,
		Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Message:   message,
		Files:     files,
	}
}

func TestBuildFileOwnership(t *testing.T) {
	commits := []models.Commit{
		commitAt("a1", "alice", "feat: add login", "auth.py", "util.py"),
		commitAt("b2", "alice", "feat: add logout", "auth.py"),
		commitAt("c3", "bob", "fix: typo", "readme.md"),
	}

	idx, err := New(t.TempDir()).Build(context.Background(), commits)
	require.NoError(t, err)

	assert.False(t, idx.ReducedFidelity)
	assert.Equal(t, models.ContributorCounts{"alice": 2}, idx.Files["auth.py"])
	assert.Equal(t, models.ContributorCounts{"alice": 1}, idx.Files["util.py"])
	assert.Equal(t, models.ContributorCounts{"bob": 1}, idx.Files["readme.md"])
}

func TestBuildDeduplicatesFilesWithinCommit(t *testing.T) {
	commits := []models.Commit{
		commitAt("a1", "alice", "refactor: shuffle", "main.go", "main.go", "main.go"),
	}

	idx, err := New(t.TempDir()).Build(context.Background(), commits)
	require.NoError(t, err)

	assert.Equal(t, 1, idx.Files["main.go"]["alice"])
}

// Each file's contributor counts must sum to the number of distinct
// commits that touched it.
func TestBuildCountConservation(t *testing.T) {
	commits := []models.Commit{
		commitAt("a1", "alice", "feat: one", "a.go", "b.go"),
		commitAt("b2", "bob", "feat: two", "a.go", "a.go"),
		commitAt("c3", "carol", "fix: three", "a.go", "c.go"),
		commitAt("d4", "alice", "chore: four", "b.go"),
	}

	idx, err := New(t.TempDir()).Build(context.Background(), commits)
	require.NoError(t, err)

	touched := make(map[string]int)
	for _, c := range commits {
		seen := make(map[string]struct{})
		for _, f := range c.Files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			touched[f]++
		}
	}

	for path, counts := range idx.Files {
		assert.Equal(t, touched[path], counts.Total(), "file %s", path)
	}
}

func TestBuildTechnologyAggregation(t *testing.T) {
	commits := []models.Commit{
		commitAt("a1", "alice", "feat: api", "server.py", "client.py"),
		commitAt("b2", "bob", "feat: ui", "app.js"),
		commitAt("c3", "alice", "chore: deploy", "Dockerfile"),
		commitAt("d4", "carol", "docs: notes", "notes.txt"),
	}

	idx, err := New(t.TempDir()).Build(context.Background(), commits)
	require.NoError(t, err)

	assert.Equal(t, models.ContributorCounts{"alice": 2}, idx.Technologies["Python"])
	assert.Equal(t, models.ContributorCounts{"bob": 1}, idx.Technologies["JavaScript"])
	assert.Equal(t, models.ContributorCounts{"alice": 1}, idx.Technologies["Docker"])

	// Files without a known technology never land in a bucket.
	for tech := range idx.Technologies {
		assert.NotEqual(t, "", tech)
	}
	total := 0
	for _, counts := range idx.Technologies {
		total += counts.Total()
	}
	assert.Equal(t, 4, total)
}

func TestBuildEmptyCommits(t *testing.T) {
	idx, err := New(t.TempDir()).Build(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, idx.Files)
	assert.Empty(t, idx.Technologies)
	assert.False(t, idx.ReducedFidelity)
}

func TestBuildCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	commits := make([]models.Commit, 50)
	for i := range commits {
		commits[i] = commitAt("h", "alice", "feat: x", "a.go")
	}

	_, err := New(t.TempDir()).Build(ctx, commits)
	assert.ErrorIs(t, err, context.Canceled)
}
