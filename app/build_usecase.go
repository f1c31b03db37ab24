package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/config"
	"github.com/ludo-technologies/jsbundle/internal/constants"
	"github.com/ludo-technologies/jsbundle/internal/plugin"
	"github.com/ludo-technologies/jsbundle/service"
)

// BuildOptions holds the use-case level settings on top of the config
type BuildOptions struct {
	// OutputWriter receives the build report
	OutputWriter io.Writer

	// OutputPath writes the report to a file instead, when set
	OutputPath string

	// Format overrides the config's output format when non-empty
	Format string

	// DotPath additionally writes a DOT graph when set
	DotPath string

	// Watch keeps the process alive rebuilding on change
	Watch bool

	// ShowProgress enables interactive progress bars
	ShowProgress bool

	// DotConfig overrides the DOT formatter defaults
	DotConfig *service.DOTFormatterConfig

	// Plugins are the hook bundles active for the build
	Plugins []plugin.Plugin
}

// DefaultBuildOptions returns options writing text to stdout
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		OutputWriter: os.Stdout,
		Format:       constants.OutputFormatText,
		ShowProgress: true,
	}
}

// BuildUseCase drives a build end to end: bundle, report, watch
type BuildUseCase struct {
	formatter    *service.OutputFormatterImpl
	dotFormatter *service.DOTFormatter
	executor     *service.ParallelExecutorImpl
}

// NewBuildUseCase creates the use case with default collaborators
func NewBuildUseCase() *BuildUseCase {
	return &BuildUseCase{
		formatter:    service.NewOutputFormatter(),
		dotFormatter: service.NewDOTFormatter(nil),
		executor:     service.NewParallelExecutor(),
	}
}

// Execute runs one build (or a watch loop) for the given config
func (uc *BuildUseCase) Execute(ctx context.Context, cfg *config.Config, opts BuildOptions) error {
	if opts.DotConfig != nil {
		uc.dotFormatter = service.NewDOTFormatter(opts.DotConfig)
	}
	if opts.Format == "" {
		opts.Format = cfg.Output.Format
	}

	progress := service.NewProgressManager(opts.ShowProgress)
	defer progress.Close()

	bundler := service.NewBundleService(cfg, opts.Plugins, progress)

	warnWriter := os.Stderr
	bundler.SetWarningHandler(func(w domain.Warning) {
		fmt.Fprintln(warnWriter, w.String())
	})

	result, err := bundler.Build(ctx)
	if err != nil {
		return err
	}
	if err := uc.writeOutputs(ctx, result, opts); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return uc.watchLoop(ctx, bundler, result, opts)
}

// writeOutputs renders the report and optional DOT graph; the writes
// are independent so they run through the parallel executor
func (uc *BuildUseCase) writeOutputs(ctx context.Context, result *service.BuildResult, opts BuildOptions) error {
	format := opts.Format
	if format == "" {
		format = constants.OutputFormatText
	}

	tasks := []domain.ExecutableTask{
		&service.FuncTask{
			TaskName: "report",
			Enabled:  true,
			Fn: func(ctx context.Context) (any, error) {
				writer := opts.OutputWriter
				if opts.OutputPath != "" {
					f, err := os.Create(opts.OutputPath)
					if err != nil {
						return nil, err
					}
					defer f.Close()
					writer = f
				}
				if format == constants.OutputFormatDOT {
					return nil, uc.dotFormatter.Write(writer, &result.Report)
				}
				return nil, uc.formatter.Write(writer, &result.Report, format)
			},
		},
		&service.FuncTask{
			TaskName: "dot-graph",
			Enabled:  opts.DotPath != "",
			Fn: func(ctx context.Context) (any, error) {
				f, err := os.Create(opts.DotPath)
				if err != nil {
					return nil, err
				}
				defer f.Close()
				return nil, uc.dotFormatter.Write(f, &result.Report)
			},
		},
	}
	return uc.executor.Execute(ctx, tasks)
}

// watchLoop rebuilds whenever a watched file changes until the context
// is cancelled
func (uc *BuildUseCase) watchLoop(ctx context.Context, bundler *service.BundleService, last *service.BuildResult, opts BuildOptions) error {
	driver := plugin.NewDriver(opts.Plugins)

	rebuild := make(chan string, 1)
	watcher, err := service.NewWatchService(driver, func(id string) {
		select {
		case rebuild <- id:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(last.Graph.WatchFiles()); err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watcher.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watchErr:
			return err
		case id := <-rebuild:
			fmt.Fprintf(os.Stderr, "changed: %s, rebuilding\n", id)
			// Carry the previous build's cache, evicting the changed module
			snapshot := last.Graph.CacheSnapshot()
			kept := snapshot.Modules[:0]
			for _, sm := range snapshot.Modules {
				if sm.ID != id {
					kept = append(kept, sm)
				}
			}
			snapshot.Modules = kept
			bundler.SetCache(snapshot)
			result, err := bundler.Build(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
				continue
			}
			if err := uc.writeOutputs(ctx, result, opts); err != nil {
				return err
			}
			if err := watcher.Add(result.Graph.WatchFiles()); err != nil {
				return err
			}
			last = result
		}
	}
}
