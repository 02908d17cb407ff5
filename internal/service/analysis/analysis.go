// Package analysis orchestrates the history pipeline: ingest, classify,
// ownership, risk, timeline, and report assembly, with cache
// short-circuiting around the whole run.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/halvard/lore/internal/cache"
	"github.com/halvard/lore/internal/classify"
	"github.com/halvard/lore/internal/gitlog"
	"github.com/halvard/lore/internal/insight"
	"github.com/halvard/lore/internal/ownership"
	"github.com/halvard/lore/internal/risk"
	"github.com/halvard/lore/internal/timeline"
	"github.com/halvard/lore/pkg/config"
	"github.com/halvard/lore/pkg/models"
)

// totalStages is the number of pipeline stages a Reporter sees.
const totalStages = 6

// Store persists serialized reports keyed by repository identity and
// head commit.
type Store interface {
	Get(key, head string) ([]byte, bool)
	Set(key, head string, data []byte) error
}

// Source yields the commit history for one repository.
type Source interface {
	Ingest(ctx context.Context) (*gitlog.History, error)
}

// Reporter receives coarse progress at stage boundaries.
type Reporter func(current, total int, message string)

// Service runs the full history analysis for a repository.
type Service struct {
	cfg      *config.Config
	store    Store
	gen      insight.Generator
	reporter Reporter

	newSource func(repoPath string) Source
	headFn    func(repoPath string) (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithStore sets the report cache.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithInsight sets the narrative generator.
func WithInsight(gen insight.Generator) Option {
	return func(s *Service) { s.gen = gen }
}

// WithReporter sets the progress callback.
func WithReporter(r Reporter) Option {
	return func(s *Service) { s.reporter = r }
}

// WithSourceFactory overrides how commit sources are built (for testing).
func WithSourceFactory(f func(repoPath string) Source) Option {
	return func(s *Service) { s.newSource = f }
}

// WithHeadResolver overrides head-commit resolution (for testing).
func WithHeadResolver(f func(repoPath string) (string, error)) Option {
	return func(s *Service) { s.headFn = f }
}

// New creates an analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.LoadOrDefault(),
		headFn: resolveHead,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newSource == nil {
		s.newSource = func(repoPath string) Source {
			return gitlog.New(repoPath,
				gitlog.WithMaxCommits(s.cfg.History.MaxCommits),
				gitlog.WithTimeout(time.Duration(s.cfg.History.TimeoutSeconds)*time.Second),
			)
		}
	}
	return s
}

// AnalyzeHistory runs the pipeline for repoPath. A valid cache entry for
// the repository's current head is returned as-is without touching the
// log source. Failed or cancelled runs are never cached.
func (s *Service) AnalyzeHistory(ctx context.Context, repoPath string) (*models.HistoryReport, error) {
	head, headErr := s.headFn(repoPath)
	key := cache.Key(repoPath, s.cfg.History.MaxCommits)

	if s.store != nil && headErr == nil {
		if data, ok := s.store.Get(key, head); ok {
			var report models.HistoryReport
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, nil
			}
		}
	}

	s.progress(1, "reading commit log")
	history, err := s.newSource(repoPath).Ingest(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingesting history: %w", err)
	}

	s.progress(2, "classifying commits")
	report := &models.HistoryReport{
		GeneratedAt:     time.Now(),
		RepoPath:        repoPath,
		TotalCommits:    len(history.Commits),
		ReducedFidelity: history.ReducedFidelity,
		Categories:      categorize(history.Commits),
		Contributors:    contributorPatterns(history.Commits),
		Recent:          recentActivity(history.Commits, s.cfg.RecentDays),
		Age:             projectAge(history.Commits),
	}
	report.TotalContributors = len(report.Contributors)

	s.progress(3, "building ownership index")
	idx, err := ownership.New(repoPath,
		ownership.WithFallbackMaxFiles(s.cfg.Ownership.FallbackMaxFiles),
		ownership.WithFileSizeBounds(s.cfg.Ownership.MinFileSize, s.cfg.Ownership.MaxFileSize),
		ownership.WithWorkers(s.cfg.Ownership.Workers),
	).Build(ctx, history.Commits)
	if err != nil {
		return nil, fmt.Errorf("building ownership index: %w", err)
	}
	report.Ownership = idx
	report.Concentration = models.CalculateOwnershipStats(idx)
	report.ReducedFidelity = report.ReducedFidelity || idx.ReducedFidelity

	s.progress(4, "assessing knowledge risk")
	assessment, err := risk.NewEngine(
		risk.WithFileDominanceThreshold(s.cfg.Risk.FileDominance),
		risk.WithTechDominanceThreshold(s.cfg.Risk.TechDominance),
		risk.WithBusFactorBounds(s.cfg.Risk.BusFactorSubjects, s.cfg.Risk.BusFactorHigh),
	).Assess(ctx, idx)
	if err != nil {
		return nil, fmt.Errorf("assessing risk: %w", err)
	}
	report.Risks = assessment

	s.progress(5, "segmenting timeline")
	report.Phases = timeline.New(
		timeline.WithMaxPhases(s.cfg.Timeline.MaxPhases),
		timeline.WithMinCommits(s.cfg.Timeline.MinCommits),
	).Segment(history.Commits)
	report.Stats = models.CalculatePhaseStats(report.Phases)

	s.progress(6, "finalizing report")
	if s.store != nil && headErr == nil {
		if data, err := json.Marshal(report); err == nil {
			_ = s.store.Set(key, head, data)
		}
	}

	return report, nil
}

// Summarize produces the optional narrative briefing for a finished
// report. Without a configured generator it returns empty.
func (s *Service) Summarize(ctx context.Context, report *models.HistoryReport) (string, error) {
	if s.gen == nil {
		return "", nil
	}
	return s.gen.Summarize(ctx, report)
}

func (s *Service) progress(stage int, message string) {
	if s.reporter != nil {
		s.reporter(stage, totalStages, message)
	}
}

func resolveHead(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

func categorize(commits []models.Commit) map[models.Category]int {
	categories := make(map[models.Category]int)
	for _, c := range commits {
		categories[classify.Commit(c.Message)]++
	}
	return categories
}

func contributorPatterns(commits []models.Commit) map[string]models.ContributorPattern {
	type agg struct {
		commits    int
		files      int
		categories map[models.Category]int
	}
	byAuthor := make(map[string]*agg)
	for _, c := range commits {
		a, ok := byAuthor[c.Author]
		if !ok {
			a = &agg{categories: make(map[models.Category]int)}
			byAuthor[c.Author] = a
		}
		a.commits++
		a.files += len(c.Files)
		a.categories[classify.Commit(c.Message)]++
	}

	patterns := make(map[string]models.ContributorPattern, len(byAuthor))
	for author, a := range byAuthor {
		patterns[author] = models.ContributorPattern{
			Commits:           a.commits,
			AvgFilesPerCommit: float64(a.files) / float64(a.commits),
			Categories:        a.categories,
		}
	}
	return patterns
}

func recentActivity(commits []models.Commit, windowDays int) models.RecentActivity {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays)
	activity := models.RecentActivity{
		WindowDays: windowDays,
		ByAuthor:   make(map[string]int),
	}
	for _, c := range commits {
		if c.Timestamp.Before(cutoff) {
			continue
		}
		activity.Commits++
		activity.ByAuthor[c.Author]++
	}
	activity.ActiveAuthors = len(activity.ByAuthor)
	return activity
}

func projectAge(commits []models.Commit) models.ProjectAge {
	if len(commits) == 0 {
		return models.ProjectAge{}
	}
	first, last := commits[0].Timestamp, commits[0].Timestamp
	for _, c := range commits[1:] {
		if c.Timestamp.Before(first) {
			first = c.Timestamp
		}
		if c.Timestamp.After(last) {
			last = c.Timestamp
		}
	}
	return models.ProjectAge{
		FirstCommit: first,
		LastCommit:  last,
		Days:        int(last.Sub(first).Hours() / 24),
	}
}
