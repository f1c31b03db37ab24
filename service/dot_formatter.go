package service

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ludo-technologies/jsbundle/domain"
)

// DOTFormatterConfig configures the DOT formatter behavior
type DOTFormatterConfig struct {
	// ShowLegend includes a legend subgraph
	ShowLegend bool

	// ClusterChunks groups modules by their chunk in subgraphs
	ClusterChunks bool

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns a config with sensible defaults
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ShowLegend:    true,
		ClusterChunks: true,
		RankDir:       "TB",
	}
}

// DOTFormatter renders the module/chunk graph as Graphviz DOT
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a DOT formatter
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

// nodeStyles maps node categories to fill/border colors. Effectively a
// constant; do not modify at runtime.
var nodeStyles = map[string]struct {
	fill   string
	border string
}{
	"entry":    {"#c6f6d5", "#2f855a"},
	"module":   {"#bee3f8", "#2b6cb0"},
	"excluded": {"#e2e8f0", "#718096"},
	"external": {"#feebc8", "#c05621"},
}

// Write renders the report's module graph as DOT
func (f *DOTFormatter) Write(writer io.Writer, report *domain.BuildReport) error {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString(fmt.Sprintf("  rankdir=%s;\n", f.config.RankDir))
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];\n\n")

	if f.config.ClusterChunks {
		for i, chunk := range report.Chunks {
			if chunk.IsFacade || len(chunk.ModuleIDs) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i))
			sb.WriteString(fmt.Sprintf("    label=%q;\n", chunk.Name))
			for _, id := range chunk.ModuleIDs {
				sb.WriteString(fmt.Sprintf("    %q;\n", id))
			}
			sb.WriteString("  }\n")
		}
		sb.WriteString("\n")
	}

	modules := append([]domain.ModuleInfo(nil), report.Modules...)
	sort.Slice(modules, func(i, j int) bool { return modules[i].ID < modules[j].ID })

	for _, m := range modules {
		style := nodeStyles["module"]
		switch {
		case m.IsExternal:
			style = nodeStyles["external"]
		case m.IsEntry:
			style = nodeStyles["entry"]
		case !m.IsIncluded:
			style = nodeStyles["excluded"]
		}
		sb.WriteString(fmt.Sprintf("  %q [fillcolor=%q, color=%q];\n", m.ID, style.fill, style.border))
	}
	sb.WriteString("\n")

	for _, m := range modules {
		for _, target := range m.ImportedIDs {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", m.ID, target))
		}
		for _, target := range m.DynamicImportedIDs {
			sb.WriteString(fmt.Sprintf("  %q -> %q [style=dashed];\n", m.ID, target))
		}
	}

	if f.config.ShowLegend {
		sb.WriteString("\n  subgraph cluster_legend {\n")
		sb.WriteString("    label=\"Legend\";\n")
		for _, kind := range []string{"entry", "module", "excluded", "external"} {
			style := nodeStyles[kind]
			sb.WriteString(fmt.Sprintf("    legend_%s [label=%q, fillcolor=%q, color=%q];\n",
				kind, kind, style.fill, style.border))
		}
		sb.WriteString("  }\n")
	}

	sb.WriteString("}\n")
	_, err := io.WriteString(writer, sb.String())
	return err
}
