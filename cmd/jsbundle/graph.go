package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/jsbundle/app"
	"github.com/ludo-technologies/jsbundle/internal/constants"
	"github.com/ludo-technologies/jsbundle/service"
)

var (
	graphRankDir  string
	graphNoLegend bool
	graphOutput   string
)

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [entry...]",
		Short: "Render the module and chunk graph as Graphviz DOT",
		Long: `Build the module graph and render modules, chunk clusters and
import edges as DOT.

Examples:
  # Render and rasterise with Graphviz
  jsbundle graph src/main.js > graph.dot
  dot -Tpng graph.dot -o graph.png

  # Pipe directly
  jsbundle graph src/main.js | dot -Tsvg -o graph.svg`,
		RunE: runGraph,
	}

	cmd.Flags().StringVar(&graphRankDir, "rank-dir", "TB",
		"Layout direction: TB, LR, BT, RL")
	cmd.Flags().BoolVar(&graphNoLegend, "no-legend", false,
		"Disable the legend subgraph")
	cmd.Flags().StringVarP(&graphOutput, "output", "o", "",
		"Output file path (default: stdout)")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
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

	opts := app.DefaultBuildOptions()
	opts.Format = constants.OutputFormatDOT
	opts.OutputPath = graphOutput
	opts.OutputWriter = os.Stdout
	opts.ShowProgress = false
	opts.DotConfig = &service.DOTFormatterConfig{
		ShowLegend:    !graphNoLegend,
		ClusterChunks: true,
		RankDir:       graphRankDir,
	}

	return app.NewBuildUseCase().Execute(context.Background(), cfg, opts)
}
