package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/legisref/internal/model"
)

// Format is a report output format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %q (expected json, yaml or text)", s)
	}
}

// Renderer writes reports
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes report to w in the given format
func (r *Renderer) Render(w io.Writer, report *model.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	case FormatText:
		return r.renderText(w, report)
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

// RenderJSONFile writes report as indented JSON to path, creating parent directories
func (r *Renderer) RenderJSONFile(report *model.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := r.Render(f, report, FormatJSON); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (r *Renderer) renderText(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Source:      %s (%s)\n", report.Source, report.Adapter)
	fmt.Fprintf(&b, "Chamber:     %s\n", report.Chamber)
	fmt.Fprintf(&b, "Year:        %d (congress %d)\n", report.Year, report.Congress)
	fmt.Fprintf(&b, "Roll calls:  %s\n", list(report.RollIDs))
	fmt.Fprintf(&b, "Bills:       %s\n", list(report.BillIDs))
	fmt.Fprintf(&b, "Legislators: %s\n", list(report.Legislators))
	fmt.Fprintf(&b, "Bioguide:    %s\n", list(report.BioguideIDs))
	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "Warning:     %s\n", warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func list(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
