package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffscope/diffscope/internal/analyze"
	"github.com/diffscope/diffscope/internal/gitdiff"
	"github.com/diffscope/diffscope/internal/logging"
	"github.com/diffscope/diffscope/internal/output"
	"github.com/diffscope/diffscope/internal/resolve"
)

var (
	analyzeOldRev  string
	analyzeNewRev  string
	analyzeRepo    string
	analyzeGitHub  string
	analyzeFormat  string
	analyzeColor   string
	analyzeQuiet   bool
	analyzeOldFile string
	analyzeNewFile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Extract structural changes between two revisions",
	Long: `Analyze reports structural changes for the given paths between two
revisions. With no paths, every file changed between the revisions is
analyzed. With --old-file/--new-file, two local files are compared
directly without any version control.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOldRev, "old", "HEAD", "old revision")
	analyzeCmd.Flags().StringVar(&analyzeNewRev, "new", "", "new revision (default: worktree)")
	analyzeCmd.Flags().StringVar(&analyzeRepo, "repo", ".", "repository path")
	analyzeCmd.Flags().StringVar(&analyzeGitHub, "github", "", "resolve content from GitHub (owner/repo) instead of a local clone")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "output format: text, json, yaml")
	analyzeCmd.Flags().StringVar(&analyzeColor, "color", "", "color mode: auto, always, never")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "one summary line per artifact")
	analyzeCmd.Flags().StringVar(&analyzeOldFile, "old-file", "", "compare a local file pair: old version")
	analyzeCmd.Flags().StringVar(&analyzeNewFile, "new-file", "", "compare a local file pair: new version")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	engineLog, err := logging.New(logging.Config{Level: engineLogLevel()})
	if err != nil {
		return err
	}
	defer engineLog.Close()

	opts := analyze.Options{
		ComplexityThreshold: cfg.Engine.ComplexityThreshold,
		ArtifactTimeout:     cfg.Engine.ArtifactTimeout,
		MaxConcurrent:       cfg.Engine.MaxConcurrent,
	}

	var (
		analyzer  *analyze.Analyzer
		artifacts []analyze.Artifact
	)

	switch {
	case analyzeOldFile != "" || analyzeNewFile != "":
		analyzer, artifacts, err = filePairAnalyzer(opts, engineLog)
	case analyzeGitHub != "":
		analyzer, artifacts, err = githubAnalyzer(opts, engineLog, args)
	default:
		analyzer, artifacts, err = gitAnalyzer(cmd, opts, engineLog, args)
	}
	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		logger.Info("No changed artifacts to analyze")
		return nil
	}

	results := analyzer.AnalyzeBatch(ctx, artifacts)

	output.ConfigureColor(pick(analyzeColor, cfg.Output.Color))
	formatter := output.NewFormatter(pick(analyzeFormat, cfg.Output.Format), analyzeQuiet || cfg.Output.Quiet)
	return formatter.Format(results, os.Stdout)
}

// filePairAnalyzer compares two local files with no VCS behind them
func filePairAnalyzer(opts analyze.Options, log *logging.Logger) (*analyze.Analyzer, []analyze.Artifact, error) {
	if analyzeOldFile == "" && analyzeNewFile == "" {
		return nil, nil, fmt.Errorf("need at least one of --old-file / --new-file")
	}

	path := analyzeNewFile
	if path == "" {
		path = analyzeOldFile
	}

	oldText, err := readOptional(analyzeOldFile)
	if err != nil {
		return nil, nil, err
	}
	newText, err := readOptional(analyzeNewFile)
	if err != nil {
		return nil, nil, err
	}

	resolver := &resolve.StaticResolver{
		Old: map[string]string{path: oldText},
		New: map[string]string{path: newText},
	}
	return analyze.New(resolver, nil, opts, log), []analyze.Artifact{{Path: path}}, nil
}

func githubAnalyzer(opts analyze.Options, log *logging.Logger, paths []string) (*analyze.Analyzer, []analyze.Artifact, error) {
	owner, repo, err := resolve.ParseRepoSlug(analyzeGitHub)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("GitHub mode needs explicit paths")
	}
	if analyzeNewRev == "" {
		return nil, nil, fmt.Errorf("GitHub mode needs --new revision")
	}

	resolver := resolve.NewGitHubResolver(owner, repo, cfg.GitHub.Token, cfg.GitHub.RateLimit)
	var artifacts []analyze.Artifact
	for _, p := range paths {
		artifacts = append(artifacts, analyze.Artifact{Path: p, OldRev: analyzeOldRev, NewRev: analyzeNewRev})
	}
	return analyze.New(resolver, nil, opts, log), artifacts, nil
}

func gitAnalyzer(cmd *cobra.Command, opts analyze.Options, log *logging.Logger, paths []string) (*analyze.Analyzer, []analyze.Artifact, error) {
	resolver := resolve.NewGitResolver(analyzeRepo)
	diffSource := gitdiff.NewGitSource(analyzeRepo)

	if len(paths) == 0 {
		changed, err := resolver.ChangedFiles(cmd.Context(), analyzeOldRev, analyzeNewRev)
		if err != nil {
			return nil, nil, err
		}
		paths = changed
	}

	var artifacts []analyze.Artifact
	for _, p := range paths {
		artifacts = append(artifacts, analyze.Artifact{Path: p, OldRev: analyzeOldRev, NewRev: analyzeNewRev})
	}
	return analyze.New(resolver, diffSource, opts, log), artifacts, nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func engineLogLevel() logging.LogLevel {
	if verbose {
		return logging.DEBUG
	}
	return logging.WARN
}

func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
