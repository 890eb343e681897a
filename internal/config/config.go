package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the client defaults so that a run configured entirely
// from CLI flags and a run configured from an empty defaults file behave
// the same way.
const (
	// DefaultHTTPTimeout bounds a single RPC round trip against the
	// workspace API. 30 seconds is generous for a JSON RPC call while
	// still failing fast when the workspace is unreachable.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultImportTimeout bounds the whole upload-and-import flow for one
	// page. The server-side import task can take much longer than a single
	// request, so this is separate from DefaultHTTPTimeout.
	DefaultImportTimeout = 60 * time.Second

	// DefaultJobs is the worker limit for the check command's concurrent
	// document scan. Four workers keep a typical documentation tree fast
	// without saturating the disk on large image scans.
	DefaultJobs = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "notiontree"
)

// Report formats accepted by the --format flag and the defaults file.
const (
	// FormatMarkdown writes the run summary as a Markdown document.
	FormatMarkdown = "markdown"

	// FormatJSON writes the run summary as indented JSON.
	FormatJSON = "json"

	// DefaultReportFormat is used when a report directory is configured
	// without an explicit format.
	DefaultReportFormat = FormatMarkdown
)

// Config holds all configuration options for an export run.
// This struct is designed to be populated from CLI flags, the optional
// defaults file, and the NOTION_TOKEN environment variable, then passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ClientConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// RootParentURL is the browseable URL of the remote page under which
	// the exported tree is created. The run resolves it once and creates
	// every page beneath it.
	RootParentURL string

	// Dir is the local source directory to export. Every Markdown file
	// and subdirectory under it becomes a remote page.
	Dir string

	// WikiRoots are base URLs of GitHub-style wikis. Absolute links that
	// start with one of these roots are mapped back to local documents
	// during link resolution.
	WikiRoots []string

	// Token is the token_v2 session token used to authenticate against
	// the workspace API. It comes from the defaults file or, when absent
	// there, from the NOTION_TOKEN environment variable. It is never
	// accepted as a CLI flag so it cannot leak into shell history.
	Token string

	// Proxy is an optional SOCKS5 proxy address in "host:port" format.
	// When set, all workspace traffic is routed through it.
	Proxy string

	// HTTPTimeout bounds a single RPC round trip.
	HTTPTimeout time.Duration

	// ImportTimeout bounds the upload-and-import flow for one page.
	// Large documents may need this increased.
	ImportTimeout time.Duration

	// ReportDir is the directory for run summary files. When empty, no
	// report files are written and the summary is only logged.
	ReportDir string

	// ReportFormat selects the report file format, FormatMarkdown or
	// FormatJSON. Only consulted when ReportDir is set.
	ReportFormat string

	// Debug enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Debug bool

	// JournalDir is the directory holding the SQLite run journal.
	// Defaults to the XDG data directory. A journal write failure is
	// logged as a warning and never fails an otherwise-successful export.
	JournalDir string

	// ConfigFilePath is an explicit path to the defaults file. If empty,
	// the tool looks for config.yml in the XDG config directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (timeouts, report
// format). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		HTTPTimeout:   DefaultHTTPTimeout,
		ImportTimeout: DefaultImportTimeout,
		ReportFormat:  DefaultReportFormat,
		JournalDir:    XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for notiontree.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/notiontree
// On macOS: ~/Library/Application Support/notiontree
// On Windows: %LOCALAPPDATA%\notiontree
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for notiontree.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/notiontree
// On macOS: ~/Library/Application Support/notiontree
// On Windows: %APPDATA%\notiontree
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid for an export run.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any remote call is made.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have a source tree to export
	if c.Dir == "" {
		return ErrNoSourceDir
	}

	// Every created page needs a parent; the root parent URL anchors the run
	if c.RootParentURL == "" {
		return ErrNoRootParentURL
	}

	// Without a session token every RPC call would fail with 401
	if c.Token == "" {
		return ErrNoToken
	}

	// Timeouts must be positive; zero would cause immediate failures
	if c.HTTPTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ImportTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// The report format is consulted only when a report is requested,
	// but an unknown value is a configuration mistake either way
	if c.ReportFormat != FormatMarkdown && c.ReportFormat != FormatJSON {
		return ErrInvalidReportFormat
	}

	return nil
}
