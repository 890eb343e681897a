package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/notiontree/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/config.yml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new notiontree configuration file",
		Long: `Initialize creates a new configuration file in the XDG config directory.

The generated file includes:
- Commented examples for the export defaults (tree location, root parent)
- GitHub wiki roots for link resolution
- Timeouts, report format, and the check command's worker limit

Examples:
  # Create the config file in the XDG config directory
  notiontree init

  # Create the config file at a specific path
  notiontree init -o myconfig.yml

  # Force overwrite an existing file
  notiontree init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFilePath(),
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/config.yml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file with secure permissions; it may later hold
	// the session token.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to set export defaults such as:")
	fmt.Println("  - The source directory and root parent page URL")
	fmt.Println("  - GitHub wiki roots for link resolution")
	fmt.Println("  - Timeouts, report format, and check concurrency")
	fmt.Println("\nThe session token is read from NOTION_TOKEN; store it in this file")
	fmt.Println("only if the file stays private.")

	return nil
}
