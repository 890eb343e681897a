// Package main provides the entry point for the notiontree CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for notiontree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notiontree",
		Short: "Mirror a local Markdown tree into Notion pages",
		Long: `notiontree mirrors a local Markdown directory tree into a hierarchical
page structure on Notion. Directories become parent pages, Markdown files
become child pages, and relative or GitHub-wiki links between documents are
rewritten to point at the created pages.

Authentication uses the token_v2 session cookie, read from the NOTION_TOKEN
environment variable or the configuration file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
