package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/unbisgraph.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".unbisgraph"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new unbisgraph configuration file",
		Long: `Initialize creates a new .unbisgraph configuration file in the current directory.

The generated file includes:
- Default settings for concurrency and timeouts
- Commented examples for the Neo4j export
- Documentation for all available options

Examples:
  # Create .unbisgraph in current directory
  unbisgraph init

  # Create config file at a specific path
  unbisgraph init -o myconfig.yaml

  # Force overwrite existing file
  unbisgraph init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
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

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/unbisgraph.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Config files may hold Neo4j credentials, so owner-only permissions.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Crawl roots, concurrency, and timeouts")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Output paths for the graph document and summary")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Neo4j connection settings for the database export")

	return nil
}
