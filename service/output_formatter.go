package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/constants"
)

// OutputFormatterImpl renders build reports
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write renders a report in the requested format
func (f *OutputFormatterImpl) Write(writer io.Writer, report *domain.BuildReport, format string) error {
	switch format {
	case constants.OutputFormatJSON:
		return WriteJSON(writer, report)
	case "", constants.OutputFormatText:
		return f.writeText(writer, report)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeText renders the human-readable report
func (f *OutputFormatterImpl) writeText(writer io.Writer, report *domain.BuildReport) error {
	var sb strings.Builder

	bodyChunks := 0
	for _, c := range report.Chunks {
		if !c.IsFacade {
			bodyChunks++
		}
	}
	includedModules := 0
	for _, m := range report.Modules {
		if m.IsIncluded {
			includedModules++
		}
	}

	sb.WriteString(fmt.Sprintf("jsbundle %s\n", report.Version))
	sb.WriteString(fmt.Sprintf("built %d chunks (%d facades) from %d modules (%d included) in %dms\n\n",
		len(report.Chunks), len(report.Chunks)-bodyChunks, len(report.Modules), includedModules, report.DurationMS))

	for _, c := range report.Chunks {
		kind := "chunk"
		if c.IsFacade {
			kind = "facade"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", kind, c.Name))
		if c.FacadeOf != "" {
			sb.WriteString(fmt.Sprintf("  signature of %s\n", c.FacadeOf))
		}
		for _, id := range c.ModuleIDs {
			sb.WriteString(fmt.Sprintf("  %s\n", id))
		}
		if len(c.Exports) > 0 {
			sb.WriteString(fmt.Sprintf("  exports: %s\n", strings.Join(c.Exports, ", ")))
		}
		if len(c.ExternalIDs) > 0 {
			sb.WriteString(fmt.Sprintf("  external: %s\n", strings.Join(c.ExternalIDs, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("%d warnings:\n", len(report.Warnings)))
		for _, w := range report.Warnings {
			sb.WriteString("  " + w.String() + "\n")
		}
	}

	_, err := io.WriteString(writer, sb.String())
	return err
}
