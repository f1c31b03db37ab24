package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/jsbundle/internal/config"
	"github.com/ludo-technologies/jsbundle/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a jsbundle configuration file",
		Long: `Generate a jsbundle configuration file with sensible defaults.

By default, creates ` + constants.ConfigFileName + ` in the current directory.
Use --interactive for a guided setup wizard.

Examples:
  # Create the config in the current directory
  jsbundle init

  # Custom output path
  jsbundle init --config bundler.yaml

  # Overwrite existing file
  jsbundle init --force

  # Interactive setup wizard
  jsbundle init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().StringP("entry", "e", "src/index.js",
		"Entry module recorded in the generated config")
	cmd.Flags().String("type", string(config.ProjectTypeApp),
		"Project type: app, library, server")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	entry, _ := cmd.Flags().GetString("entry")
	typeName, _ := cmd.Flags().GetString("type")
	interactive, _ := cmd.Flags().GetBool("interactive")

	projectType := config.ProjectType(typeName)

	if interactive {
		var err error
		projectType, entry, err = runInteractiveSetup(entry)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	content, err := config.GenerateTemplate(projectType, entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'jsbundle build' to bundle your project.")
	return nil
}

// runInteractiveSetup walks through project type and entry selection
func runInteractiveSetup(defaultEntry string) (config.ProjectType, string, error) {
	projectTypes := []struct {
		Label       string
		Description string
		Value       config.ProjectType
	}{
		{"Application", "Single bundle, dropped entry signatures", config.ProjectTypeApp},
		{"Library", "Strict signatures, one chunk per module", config.ProjectTypeLibrary},
		{"Node server", "Node builtins external", config.ProjectTypeServer},
	}

	projectTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }}",
		Inactive: "   {{ .Label | white }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	projectPrompt := promptui.Select{
		Label:     "What type of project is this?",
		Items:     projectTypes,
		Templates: projectTemplates,
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("project selection cancelled: %w", err)
	}

	entryPrompt := promptui.Prompt{
		Label:   "Entry module",
		Default: defaultEntry,
	}
	entry, err := entryPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("entry selection cancelled: %w", err)
	}

	return projectTypes[projectIdx].Value, entry, nil
}
