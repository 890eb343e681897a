package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML duration strings
// such as "45s" or "2m". yaml.v3 has no native time.Duration support, so
// the defaults file uses this wrapper for its timeout entries.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for duration strings.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// File represents the structure of the config.yml defaults file.
// Every entry is optional. File values fill in settings the user did not
// provide on the command line; explicit CLI flags always win.
type File struct {
	// RootParentURL is the default root parent page URL for exports.
	RootParentURL string `yaml:"root_parent_url,omitempty"`

	// Dir is the default source directory for exports.
	Dir string `yaml:"dir,omitempty"`

	// WikiRoots are GitHub-style wiki base URLs used for link resolution.
	WikiRoots []string `yaml:"github_wiki_roots,omitempty"`

	// Token is the token_v2 session token. When absent, the NOTION_TOKEN
	// environment variable is consulted instead. Keep the file at 0600
	// when storing a token here.
	Token string `yaml:"token,omitempty"`

	// Proxy is a SOCKS5 proxy address in "host:port" format.
	Proxy string `yaml:"proxy,omitempty"`

	// HTTPTimeout bounds a single RPC round trip, e.g. "30s".
	HTTPTimeout Duration `yaml:"http_timeout,omitempty"`

	// ImportTimeout bounds the upload-and-import flow for one page,
	// e.g. "90s" for trees with large documents.
	ImportTimeout Duration `yaml:"import_timeout,omitempty"`

	// ReportDir is the directory for run summary files.
	ReportDir string `yaml:"report_dir,omitempty"`

	// ReportFormat selects the report file format, "markdown" or "json".
	ReportFormat string `yaml:"report_format,omitempty"`

	// Jobs is the worker limit for the check command.
	Jobs int `yaml:"jobs,omitempty"`

	// Debug enables detailed log output.
	Debug bool `yaml:"debug,omitempty"`
}
