package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/jsbundle/app"
	"github.com/ludo-technologies/jsbundle/internal/config"
	"github.com/ludo-technologies/jsbundle/service"
)

var (
	buildConfigPath        string
	buildOutputFormat      string
	buildOutputPath        string
	buildDotPath           string
	buildExternal          []string
	buildNoTreeshake       bool
	buildPreserveModules   bool
	buildInlineDynamic     bool
	buildPreserveSymlinks  bool
	buildEntrySignatures   string
	buildShimMissing       bool
	buildStrictDeprecation bool
	buildWatch             bool
	buildNoProgress        bool
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [entry...]",
		Short: "Build the module graph and report the chunk layout",
		Long: `Load the transitive import closure of the entries, link and
tree-shake the graph, and partition it into chunks.

Entries may be plain paths, name=path pairs, or directories (every
bundleable file directly inside counts as an entry).

Examples:
  # Single entry
  jsbundle build src/main.js

  # Named entries
  jsbundle build main=src/main.js worker=src/worker.js

  # Library layout, one chunk per module
  jsbundle build --preserve-modules src/index.ts

  # JSON report
  jsbundle build -f json -o report.json src/main.js

  # Keep watching and rebuilding
  jsbundle build --watch src/main.js`,
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&buildConfigPath, "config", "c", "",
		"Config file path (default: nearest .jsbundle.yaml)")
	cmd.Flags().StringVarP(&buildOutputFormat, "format", "f", "text",
		"Report format: text, json, dot")
	cmd.Flags().StringVarP(&buildOutputPath, "output", "o", "",
		"Report file path (default: stdout)")
	cmd.Flags().StringVar(&buildDotPath, "dot-file", "",
		"Additionally write a Graphviz DOT graph to this path")
	cmd.Flags().StringSliceVar(&buildExternal, "external", nil,
		"Specifiers treated as external")
	cmd.Flags().BoolVar(&buildNoTreeshake, "no-treeshake", false,
		"Disable tree-shaking")
	cmd.Flags().BoolVar(&buildPreserveModules, "preserve-modules", false,
		"Emit one chunk per module")
	cmd.Flags().BoolVar(&buildInlineDynamic, "inline-dynamic-imports", false,
		"Fold everything into a single chunk")
	cmd.Flags().BoolVar(&buildPreserveSymlinks, "preserve-symlinks", false,
		"Do not canonicalise ids through symlinks")
	cmd.Flags().StringVar(&buildEntrySignatures, "preserve-entry-signatures", "",
		"Entry signature policy: none, strict, allow-extension")
	cmd.Flags().BoolVar(&buildShimMissing, "shim-missing-exports", false,
		"Substitute shims for missing exports instead of undefined bindings")
	cmd.Flags().BoolVar(&buildStrictDeprecation, "strict-deprecations", false,
		"Escalate deprecation warnings to errors")
	cmd.Flags().BoolVarP(&buildWatch, "watch", "w", false,
		"Rebuild when watched files change")
	cmd.Flags().BoolVar(&buildNoProgress, "no-progress", false,
		"Disable progress bars")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadBuildConfig()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		input, order, err := app.NewFileHelper().CollectEntries(args)
		if err != nil {
			return err
		}
		cfg.Input = input
		cfg.EntryOrder = order
	}
	if len(cfg.Input) == 0 {
		return fmt.Errorf("no entries: pass entry files or declare input in the config")
	}

	applyBuildFlags(cmd, cfg)

	opts := app.DefaultBuildOptions()
	opts.Format = buildOutputFormat
	opts.OutputPath = buildOutputPath
	opts.DotPath = buildDotPath
	opts.Watch = buildWatch
	opts.ShowProgress = !buildNoProgress

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return app.NewBuildUseCase().Execute(ctx, cfg, opts)
}

// loadBuildConfig loads the explicit config file or the nearest default
func loadBuildConfig() (*config.Config, error) {
	loader := service.NewConfigurationLoader()
	if buildConfigPath != "" {
		return loader.LoadConfig(buildConfigPath)
	}
	return loader.LoadDefaultConfig(), nil
}

// applyBuildFlags overlays explicitly set flags onto the config
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("external") {
		cfg.External = append(cfg.External, buildExternal...)
	}
	if cmd.Flags().Changed("no-treeshake") {
		cfg.Treeshake.Enabled = !buildNoTreeshake
	}
	if cmd.Flags().Changed("preserve-modules") {
		cfg.PreserveModules = buildPreserveModules
	}
	if cmd.Flags().Changed("inline-dynamic-imports") {
		cfg.InlineDynamicImports = buildInlineDynamic
	}
	if cmd.Flags().Changed("preserve-symlinks") {
		cfg.PreserveSymlinks = buildPreserveSymlinks
	}
	if cmd.Flags().Changed("preserve-entry-signatures") {
		cfg.PreserveEntrySignatures = buildEntrySignatures
	}
	if cmd.Flags().Changed("shim-missing-exports") {
		cfg.ShimMissingExports = buildShimMissing
	}
	if cmd.Flags().Changed("strict-deprecations") {
		cfg.StrictDeprecations = buildStrictDeprecation
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = buildOutputFormat
	}
}
