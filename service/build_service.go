package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/config"
	"github.com/ludo-technologies/jsbundle/internal/graph"
	"github.com/ludo-technologies/jsbundle/internal/parser"
	"github.com/ludo-technologies/jsbundle/internal/plugin"
	"github.com/ludo-technologies/jsbundle/internal/resolver"
	"github.com/ludo-technologies/jsbundle/internal/version"
)

// BuildResult bundles the chunk descriptors with the graph that
// produced them and the rendered report data
type BuildResult struct {
	Chunks []*graph.Chunk
	Graph  *graph.Graph
	Report domain.BuildReport
}

// BundleService drives one build: it wires the default resolver, the
// plugin driver and the graph, then runs the four-phase pipeline.
type BundleService struct {
	cfg      *config.Config
	plugins  []plugin.Plugin
	progress domain.ProgressManager
	cache    *domain.BuildCache
	onWarn   domain.WarningHandler
}

// NewBundleService creates a bundle service over a validated config
func NewBundleService(cfg *config.Config, plugins []plugin.Plugin, progress domain.ProgressManager) *BundleService {
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &BundleService{
		cfg:      cfg,
		plugins:  plugins,
		progress: progress,
	}
}

// SetCache installs a previous build's snapshot
func (s *BundleService) SetCache(cache *domain.BuildCache) {
	s.cache = cache
}

// SetWarningHandler installs a user warning handler
func (s *BundleService) SetWarningHandler(handler domain.WarningHandler) {
	s.onWarn = handler
}

// Build runs one build under the configured timeout
func (s *BundleService) Build(ctx context.Context) (*BuildResult, error) {
	startTime := time.Now()

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(s.cfg.Input) == 0 {
		return nil, &domain.BuildError{
			Code:    domain.ErrMissingInput,
			Message: "config declares no input",
		}
	}

	opts, deprecations := s.cfg.ToInputOptions()
	opts.Cache = s.cache
	opts.OnWarn = s.onWarn

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	res := resolver.NewResolver(&resolver.Config{
		RootDir:          wd,
		PreserveSymlinks: opts.PreserveSymlinks,
		External:         opts.External,
		ExternalFn:       opts.ExternalFn,
	})

	driver := plugin.NewDriver(s.plugins)
	g := graph.NewGraph(opts,
		driver.ResolveFn(res.Resolve),
		driver.LoadFn(resolver.LoadFile),
		func(id, code string) (*parser.Node, error) {
			return parser.ParseForLanguage(id, []byte(code))
		})
	driver.AttachCache(g.PluginCache)
	g.SetModuleParsedHook(driver.NotifyModuleParsed)

	for _, message := range deprecations {
		if err := g.WarnDeprecation(message); err != nil {
			return nil, err
		}
	}

	task := s.progress.StartTask("Loading modules", -1)
	g.SetProgress(func(loaded int) {
		task.Describe(fmt.Sprintf("Loading modules (%d)", loaded))
		task.Increment(1)
	})
	defer task.Complete()

	timeout := time.Duration(s.cfg.Performance.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	buildCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chunks, err := g.Build(buildCtx)
	if err != nil {
		return nil, err
	}

	report := domain.BuildReport{
		Modules:     g.ModuleInfos(),
		Warnings:    g.Warnings(),
		DurationMS:  time.Since(startTime).Milliseconds(),
		GeneratedAt: startTime.UTC().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}
	for _, c := range chunks {
		report.Chunks = append(report.Chunks, c.Summary())
	}

	return &BuildResult{
		Chunks: chunks,
		Graph:  g,
		Report: report,
	}, nil
}
