// Package gitlog turns raw version-control log output into an ordered
// sequence of structured commit records.
package gitlog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/halvard/lore/pkg/models"
)

// ErrLogTimeout is returned when the primary log retrieval and its
// fallback both failed or timed out. Fatal for the whole analysis.
var ErrLogTimeout = errors.New("gitlog: log retrieval timed out")

// DefaultTimeout bounds the primary log retrieval call.
const DefaultTimeout = 90 * time.Second

// DefaultMaxCommits bounds how many most-recent non-merge commits are
// retrieved.
const DefaultMaxCommits = 500

// Runner executes a git subcommand and returns its stdout. Abstracted so
// tests can substitute failures without a real git binary.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// History is the ingester's output: the parsed commit sequence plus a flag
// marking whether file lists were available.
type History struct {
	Commits []models.Commit
	// ReducedFidelity is true when the fallback path was used and commits
	// carry no file lists.
	ReducedFidelity bool
}

// Ingester retrieves and parses a repository's commit log.
type Ingester struct {
	repoPath   string
	maxCommits int
	timeout    time.Duration
	runner     Runner
}

// Option is a functional option for configuring an Ingester.
type Option func(*Ingester)

// WithMaxCommits bounds the number of commits retrieved.
func WithMaxCommits(n int) Option {
	return func(g *Ingester) {
		if n > 0 {
			g.maxCommits = n
		}
	}
}

// WithTimeout sets the hard timeout on the primary log call.
func WithTimeout(d time.Duration) Option {
	return func(g *Ingester) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithRunner sets the command runner (useful for testing).
func WithRunner(r Runner) Option {
	return func(g *Ingester) {
		g.runner = r
	}
}

// New creates an ingester for the repository at repoPath.
func New(repoPath string, opts ...Option) *Ingester {
	g := &Ingester{
		repoPath:   repoPath,
		maxCommits: DefaultMaxCommits,
		timeout:    DefaultTimeout,
		runner:     execRunner{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ingest retrieves the most recent non-merge commits. The primary path is
// a single bulk `git log --name-only` call; if that fails or times out it
// falls back to per-commit iteration via go-git, which yields commits
// without file lists instead of surfacing a fatal error. Downstream
// consumers must treat the returned ordering as unsorted.
func (g *Ingester) Ingest(ctx context.Context) (*History, error) {
	raw, err := g.runBulkLog(ctx)
	if err == nil {
		return &History{Commits: ParseLog(raw)}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	commits, fbErr := g.iterateCommits(ctx)
	if fbErr == nil {
		return &History{Commits: commits, ReducedFidelity: true}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %v", ErrLogTimeout, fbErr)
	}
	return nil, fmt.Errorf("gitlog: bulk log failed (%v); fallback failed: %w", err, fbErr)
}

func (g *Ingester) runBulkLog(ctx context.Context) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.runner.Run(callCtx, g.repoPath,
		"log",
		"--name-only",
		"--no-merges",
		"--pretty=format:%H|%an|%at|%s",
		fmt.Sprintf("-%d", g.maxCommits),
	)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		// exec reports a kill, not the deadline; surface the deadline.
		return "", context.DeadlineExceeded
	}
	return out, err
}

// iterateCommits walks the history with go-git, skipping merges. Slower
// than the bulk call and yields no file lists.
func (g *Ingester) iterateCommits(ctx context.Context) ([]models.Commit, error) {
	repo, err := git.PlainOpen(g.repoPath)
	if err != nil {
		return nil, err
	}

	logIter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, err
	}
	defer logIter.Close()

	var commits []models.Commit
	err = logIter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, models.Commit{
			Hash:      c.Hash.String(),
			Author:    c.Author.Name,
			Timestamp: c.Author.When,
			Message:   c.Message,
		})
		if len(commits) >= g.maxCommits {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}
