package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/notiontree/internal/config"
	"github.com/nao1215/notiontree/internal/hierarchy"
	"github.com/nao1215/notiontree/internal/journal"
	"github.com/nao1215/notiontree/internal/log"
	"github.com/nao1215/notiontree/internal/model"
	"github.com/nao1215/notiontree/internal/notion"
	"github.com/nao1215/notiontree/internal/pipeline"
	"github.com/nao1215/notiontree/internal/report"
	"github.com/nao1215/notiontree/internal/sync"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a Markdown directory tree to Notion",
		Long: `Export mirrors a local Markdown directory tree into Notion pages.

The run happens in three phases:
- Create one page per directory and document, flat under the root page
- Rewrite links against the created pages and import each document's content
- Move the pages into the directory tree shape, bottom-up

The session token is read from the NOTION_TOKEN environment variable or the
"token" key of the configuration file. There is no token flag, so the token
never lands in shell history.

Examples:
  # Export ./docs under an existing page
  notiontree export --dir ./docs \
    --root-parent-url https://www.notion.so/user/Home-0123456789abcdef0123456789abcdef

  # Resolve GitHub wiki links to the created pages
  notiontree export --dir ./docs --root-parent-url <page-url> \
    --github-wiki-root https://github.com/user/repo/wiki/

  # Write a JSON report into ./reports instead of printing to stdout
  notiontree export --dir ./docs --root-parent-url <page-url> \
    --format json --report-dir ./reports

  # Route traffic through a SOCKS5 proxy
  notiontree export --dir ./docs --root-parent-url <page-url> \
    --proxy 127.0.0.1:1080

Configuration file (config.yml) example:
  root_parent_url: https://www.notion.so/user/Home-0123456789abcdef0123456789abcdef
  dir: ./docs
  github_wiki_roots:
    - https://github.com/user/repo/wiki/
  http_timeout: 30s
  report_format: markdown`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	// Source tree flags
	cmd.Flags().StringP("dir", "d", "",
		"Source directory holding the Markdown tree")
	cmd.Flags().StringP("root-parent-url", "r", "",
		"URL of the existing page the exported tree is created under")
	cmd.Flags().StringSliceP("github-wiki-root", "w", nil,
		"GitHub wiki root URL treated as a tree-internal link prefix (repeatable)")

	// Workspace connection flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultHTTPTimeout,
		"Timeout for a single API request")
	cmd.Flags().Duration("import-timeout", config.DefaultImportTimeout,
		"Timeout for one page's content import")
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:1080)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: config.yml in the XDG config directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultReportFormat,
		`Report format: "markdown" or "json"`)
	cmd.Flags().StringP("report-dir", "o", "",
		"Write the run report into this directory instead of stdout")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	// Build config from flags and the optional defaults file
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Debug)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExport(ctx, cfg, logger)
}

// getDebugFlag retrieves the debug flag from the command or its parent.
func getDebugFlag(cmd *cobra.Command) bool {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		debug, err = cmd.Root().PersistentFlags().GetBool("debug")
		if err != nil {
			return false
		}
	}
	return debug
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Dir, err = cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}

	cfg.RootParentURL, err = cmd.Flags().GetString("root-parent-url")
	if err != nil {
		return nil, err
	}

	cfg.WikiRoots, err = cmd.Flags().GetStringSlice("github-wiki-root")
	if err != nil {
		return nil, err
	}

	cfg.HTTPTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ImportTimeout, err = cmd.Flags().GetDuration("import-timeout")
	if err != nil {
		return nil, err
	}

	cfg.Proxy, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.ReportFormat, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.ReportDir, err = cmd.Flags().GetString("report-dir")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Debug = getDebugFlag(cmd)

	// Apply defaults from the config file under explicitly set flags.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyFileDefaults(cmd, cfg, file)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// The token is never a flag; shell history must not hold it.
	if cfg.Token == "" {
		cfg.Token = os.Getenv("NOTION_TOKEN")
	}

	return cfg, nil
}

// applyFileDefaults fills cfg from the defaults file for every value the
// user did not set explicitly on the command line.
func applyFileDefaults(cmd *cobra.Command, cfg *config.Config, file *config.File) {
	if !cmd.Flags().Changed("dir") && file.Dir != "" {
		cfg.Dir = file.Dir
	}
	if !cmd.Flags().Changed("root-parent-url") && file.RootParentURL != "" {
		cfg.RootParentURL = file.RootParentURL
	}
	if !cmd.Flags().Changed("github-wiki-root") && len(file.WikiRoots) > 0 {
		cfg.WikiRoots = file.WikiRoots
	}
	if !cmd.Flags().Changed("timeout") && file.HTTPTimeout > 0 {
		cfg.HTTPTimeout = time.Duration(file.HTTPTimeout)
	}
	if !cmd.Flags().Changed("import-timeout") && file.ImportTimeout > 0 {
		cfg.ImportTimeout = time.Duration(file.ImportTimeout)
	}
	if !cmd.Flags().Changed("proxy") && file.Proxy != "" {
		cfg.Proxy = file.Proxy
	}
	if !cmd.Flags().Changed("format") && file.ReportFormat != "" {
		cfg.ReportFormat = file.ReportFormat
	}
	if !cmd.Flags().Changed("report-dir") && file.ReportDir != "" {
		cfg.ReportDir = file.ReportDir
	}
	if !cmd.Flags().Changed("debug") && file.Debug {
		cfg.Debug = true
	}

	// Token has no flag; the file value always applies.
	if file.Token != "" {
		cfg.Token = file.Token
	}
}

// setupLogger creates a structured logger based on the debug setting.
// Session tokens never reach the log output, even at debug level.
func setupLogger(debug bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, debug)
}

// normalizeProxyAddress strips an optional socks5:// scheme so both
// "host:port" and "socks5://host:port" are accepted.
func normalizeProxyAddress(address string) string {
	address = strings.TrimPrefix(address, "socks5h://")
	address = strings.TrimPrefix(address, "socks5://")
	return address
}

// runExport executes the export run.
func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting export",
		"dir", cfg.Dir,
		"rootParent", cfg.RootParentURL,
		"wikiRoots", len(cfg.WikiRoots),
	)

	// Create the workspace client once; every phase uses the same session.
	clientOpts := []notion.Option{
		notion.WithHTTPTimeout(cfg.HTTPTimeout),
		notion.WithImportTimeout(cfg.ImportTimeout),
		notion.WithLogger(logger),
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, notion.WithProxy(normalizeProxyAddress(cfg.Proxy)))
	}

	client, err := notion.NewClient(cfg.Token, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create workspace client: %w", err)
	}

	builder := hierarchy.NewBuilder(hierarchy.WithLogger(logger))
	driver := sync.NewDriver(client, sync.WithLogger(logger))

	p := pipeline.ExportPipeline(builder, driver, []pipeline.Option{
		pipeline.WithLogger(logger),
	})

	syncReport := model.NewSyncReport(cfg.Dir, cfg.RootParentURL, cfg.WikiRoots)

	fmt.Printf("Exporting %s...\n", cfg.Dir)

	// Execute the pipeline
	runErr := p.Execute(ctx, syncReport)
	syncReport.FinishedAt = time.Now()

	if runErr != nil {
		logger.Error("export failed", "dir", cfg.Dir, "error", runErr)
		fmt.Fprintf(os.Stderr, "Export error for %s: %v\n", cfg.Dir, runErr)
	} else {
		fmt.Printf("Export completed in %s\n", syncReport.Duration().Round(time.Millisecond))
		if syncReport.RootPageURL != "" {
			fmt.Printf("Root page: %s\n\n", syncReport.RootPageURL)
		}
	}

	// The report and the journal record failed runs too; their own
	// failures must not mask the run error.
	if err := outputReport(cfg, syncReport); err != nil {
		logger.Error("report failed", "dir", cfg.Dir, "error", err)
	}
	if err := saveRunJournal(ctx, cfg, syncReport, logger); err != nil {
		logger.Warn("failed to save run journal", "dir", cfg.Dir, "error", err)
	}

	return runErr
}

// outputReport writes the run report in the requested format. An empty
// report directory means stdout.
func outputReport(cfg *config.Config, syncReport *model.SyncReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportDir != "" {
		if err := os.MkdirAll(cfg.ReportDir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}

		// Create/overwrite the report file with secure permissions (0600)
		// Reports carry remote page URLs that should only be readable by the owner
		path := filepath.Join(cfg.ReportDir, reportFilename(cfg.ReportFormat, syncReport.StartedAt))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f

		fmt.Printf("Report written to %s\n", path)
	} else {
		output = os.Stdout
	}

	// JSON output (full report wrapped with the tool version)
	if cfg.ReportFormat == config.FormatJSON {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(syncReport)
		return err
	}

	// Markdown output (default)
	writer := report.NewMarkdownWriter(output)
	_, err := writer.Write(syncReport)
	return err
}

// reportFilename builds the timestamped report file name.
func reportFilename(format string, startedAt time.Time) string {
	ext := "md"
	if format == config.FormatJSON {
		ext = "json"
	}
	return fmt.Sprintf("notiontree_%s.%s", startedAt.Format("20060102_150405"), ext)
}

// saveRunJournal appends the run to the journal. A journal failure is
// reported to the caller but never fails the export itself.
func saveRunJournal(ctx context.Context, cfg *config.Config, syncReport *model.SyncReport, logger *slog.Logger) error {
	j, err := journal.Open(cfg.JournalDir, journal.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	id, err := j.SaveRun(ctx, syncReport, cfg.Token)
	if err != nil {
		return err
	}

	logger.Info("run journaled", "id", id, "dir", cfg.Dir)
	return nil
}
