package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/notiontree/internal/check"
	"github.com/nao1215/notiontree/internal/config"
	"github.com/nao1215/notiontree/internal/model"
	"github.com/nao1215/notiontree/internal/report"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a Markdown tree before exporting it",
		Long: `Check scans a local Markdown tree for issues that would degrade or leak
information from the exported pages, without touching the network.

It builds the hierarchy exactly as export would, then reports:
- Relative links pointing outside the tree (dead references after export)
- GitHub wiki links with no matching document
- Directories without an index.md (pages created with an empty body)
- EXIF metadata in referenced images (GPS coordinates, serial numbers)

The command exits non-zero when any finding is HIGH severity or above.

Examples:
  # Check ./docs before exporting it
  notiontree check --dir ./docs

  # Resolve wiki links against the tree during the check
  notiontree check --dir ./docs --github-wiki-root https://github.com/user/repo/wiki/

  # Show descriptions and recommendations for each finding
  notiontree check --dir ./docs --verbose

  # Scan eight documents at a time
  notiontree check --dir ./docs --jobs 8`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().StringP("dir", "d", "",
		"Source directory holding the Markdown tree")
	cmd.Flags().StringSliceP("github-wiki-root", "w", nil,
		"GitHub wiki root URL treated as a tree-internal link prefix (repeatable)")
	cmd.Flags().IntP("jobs", "n", config.DefaultJobs,
		"Number of documents scanned concurrently")
	cmd.Flags().Bool("skip-exif", false,
		"Skip image metadata extraction (faster for image-heavy trees)")
	cmd.Flags().BoolP("verbose", "v", false,
		"Show descriptions and recommendations for each finding")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: config.yml in the XDG config directory)")

	return cmd
}

// checkConfig holds the resolved options of one check run.
type checkConfig struct {
	// dir is the source directory to scan.
	dir string

	// wikiRoots are the wiki root URLs links may resolve against.
	wikiRoots []string

	// jobs is the number of documents scanned concurrently.
	jobs int

	// skipEXIF disables image metadata extraction.
	skipEXIF bool

	// verbose shows descriptions and recommendations per finding.
	verbose bool

	// debug enables debug logging.
	debug bool
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCheckConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.dir == "" {
		return fmt.Errorf("configuration error: %w", config.ErrNoSourceDir)
	}

	// Set up structured logging
	logger := setupLogger(cfg.debug)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// buildCheckConfig creates a checkConfig from cobra command flags and the
// optional configuration file.
func buildCheckConfig(cmd *cobra.Command) (*checkConfig, error) {
	cfg := &checkConfig{}

	var err error

	cfg.dir, err = cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}

	cfg.wikiRoots, err = cmd.Flags().GetStringSlice("github-wiki-root")
	if err != nil {
		return nil, err
	}

	cfg.jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}

	cfg.skipEXIF, err = cmd.Flags().GetBool("skip-exif")
	if err != nil {
		return nil, err
	}

	cfg.verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	configFilePath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.debug = getDebugFlag(cmd)

	// The check shares the export's defaults file for the tree location,
	// the wiki roots, and the worker limit.
	explicitConfigPath := configFilePath != ""
	configPath := config.FindConfigFile(configFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if !cmd.Flags().Changed("dir") && file.Dir != "" {
			cfg.dir = file.Dir
		}
		if !cmd.Flags().Changed("github-wiki-root") && len(file.WikiRoots) > 0 {
			cfg.wikiRoots = file.WikiRoots
		}
		if !cmd.Flags().Changed("jobs") && file.Jobs > 0 {
			cfg.jobs = file.Jobs
		}
		if !cmd.Flags().Changed("debug") && file.Debug {
			cfg.debug = true
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", configFilePath)
	}

	return cfg, nil
}

// runCheck executes the pre-publish check.
func runCheck(ctx context.Context, cfg *checkConfig, logger *slog.Logger) error {
	checker := check.NewChecker(
		check.WithWikiRoots(cfg.wikiRoots),
		check.WithJobs(cfg.jobs),
		check.WithEXIF(!cfg.skipEXIF),
		check.WithLogger(logger),
	)

	result, err := checker.Run(ctx, cfg.dir)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	writer := report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.verbose))
	if _, err := writer.WriteFindings(result.Findings, result.Documents, result.Elapsed); err != nil {
		return fmt.Errorf("failed to write findings: %w", err)
	}

	// A blocking finding makes the tree unsafe to publish; the non-zero
	// exit lets CI gate exports on the check.
	if result.Blocking() {
		return fmt.Errorf("found %d finding(s) at HIGH severity or above", countBlocking(result))
	}

	return nil
}

// countBlocking returns the number of findings at or above HIGH severity.
func countBlocking(result *check.Result) int {
	return result.CountBySeverity(model.SeverityCritical) + result.CountBySeverity(model.SeverityHigh)
}
