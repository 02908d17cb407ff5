package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/halvard/lore/internal/cache"
	"github.com/halvard/lore/internal/insight"
	"github.com/halvard/lore/internal/output"
	"github.com/halvard/lore/internal/progress"
	"github.com/halvard/lore/internal/service/analysis"
	"github.com/halvard/lore/pkg/config"
	"github.com/halvard/lore/pkg/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run history analyses against a repository",
}

var historyCmd = &cobra.Command{
	Use:     "history [path]",
	Aliases: []string{"report"},
	Short:   "Full history report: ownership, risk, and timeline",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runHistory,
}

var ownershipCmd = &cobra.Command{
	Use:     "ownership [path]",
	Aliases: []string{"own"},
	Short:   "File and technology ownership maps",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runOwnership,
}

var risksCmd = &cobra.Command{
	Use:     "risks [path]",
	Aliases: []string{"risk", "bus-factor"},
	Short:   "Knowledge-concentration risk findings",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRisks,
}

var phasesCmd = &cobra.Command{
	Use:     "phases [path]",
	Aliases: []string{"timeline"},
	Short:   "Development phases and velocity",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runPhases,
}

func init() {
	historyCmd.Flags().Bool("insight", false, "Include an LLM-generated briefing")

	analyzeCmd.AddCommand(historyCmd)
	analyzeCmd.AddCommand(ownershipCmd)
	analyzeCmd.AddCommand(risksCmd)
	analyzeCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// repoPathArg resolves the positional repository path, defaulting to the
// working directory.
func repoPathArg(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return abs, nil
}

// analyzeRepo runs the shared pipeline and returns the finished report.
func analyzeRepo(cmd *cobra.Command, args []string) (*models.HistoryReport, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	repoPath, err := repoPathArg(args)
	if err != nil {
		return nil, nil, err
	}

	store, err := cache.New(cfg.Cache.Dir, time.Duration(cfg.Cache.TTL)*time.Hour, cfg.Cache.Enabled)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing cache: %w", err)
	}

	tracker := progress.NewTracker("Analyzing history", 6)
	svc := analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithStore(store),
		analysis.WithReporter(stageReporter(tracker, cfg.Output.Verbose)),
	)

	report, err := svc.AnalyzeHistory(cmd.Context(), repoPath)
	if err != nil {
		tracker.FinishError(err)
		return nil, nil, fmt.Errorf("history analysis failed (is this a git repository?): %w", err)
	}
	tracker.FinishSuccess()
	return report, cfg, nil
}

// stageReporter adapts the pipeline progress callback onto the tracker.
// Verbose runs show each stage's message on the bar label.
func stageReporter(tracker *progress.Tracker, verbose bool) analysis.Reporter {
	return func(_, _ int, message string) {
		if verbose {
			tracker.Describe(message)
		}
		tracker.Tick()
	}
}

func newFormatter(cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), outputFile, cfg.Output.Color)
}

func runHistory(cmd *cobra.Command, args []string) error {
	report, cfg, err := analyzeRepo(cmd, args)
	if err != nil {
		return err
	}

	narrative := ""
	wantInsight, _ := cmd.Flags().GetBool("insight")
	if wantInsight || cfg.Insight.Enabled {
		apiKey := os.Getenv(cfg.Insight.APIKeyEnv)
		if apiKey == "" {
			color.Yellow("Skipping briefing: %s is not set", cfg.Insight.APIKeyEnv)
		} else {
			gen := insight.NewOpenAIGenerator(apiKey, cfg.Insight.Model)
			narrative, err = gen.Summarize(cmd.Context(), report)
			if err != nil {
				color.Yellow("Briefing unavailable: %v", err)
				narrative = ""
			}
		}
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.BuildHistoryReport(report, narrative))
}

func runOwnership(cmd *cobra.Command, args []string) error {
	report, cfg, err := analyzeRepo(cmd, args)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if report.ReducedFidelity {
		formatter.Warning("File data reconstructed in reduced-fidelity mode")
	}
	return formatter.Output(output.OwnershipTable(report.Ownership, report.Concentration))
}

func runRisks(cmd *cobra.Command, args []string) error {
	report, cfg, err := analyzeRepo(cmd, args)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.RiskTable(report.Risks))
}

func runPhases(cmd *cobra.Command, args []string) error {
	report, cfg, err := analyzeRepo(cmd, args)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(report.Phases) == 0 {
		formatter.Info("Not enough history to segment into phases (need at least %d commits)", cfg.Timeline.MinCommits)
		return nil
	}
	return formatter.Output(output.PhaseTable(report.Phases, report.Stats))
}
