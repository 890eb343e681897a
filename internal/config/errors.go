package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSourceDir is returned when no source directory is specified.
	// The export has nothing to publish without a local tree.
	ErrNoSourceDir = errors.New("no source directory specified: provide --dir")

	// ErrNoRootParentURL is returned when no root parent page URL is
	// specified. Every page the export creates needs an anchor page to
	// live under.
	ErrNoRootParentURL = errors.New("no root parent page specified: provide --root-parent-url")

	// ErrNoToken is returned when no session token is available.
	// Set the NOTION_TOKEN environment variable or add a token entry
	// to the defaults file.
	ErrNoToken = errors.New("no session token: set NOTION_TOKEN or add token to the config file")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidReportFormat is returned when the report format is not
	// one of the supported values.
	ErrInvalidReportFormat = errors.New("invalid report format: must be \"markdown\" or \"json\"")
)
