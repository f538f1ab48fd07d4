package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an output format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatYAML}

var ErrUnsupportedFormat = errors.New("unsupported format")

// Reporter renders summaries and inconsistency listings in one format
type Reporter struct {
	format Format
}

// New creates a Reporter for the named format; empty means text
func New(format string) (*Reporter, error) {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = FormatText
	}
	for _, known := range Formats {
		if f == known {
			return &Reporter{format: f}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Format returns the output format of r
func (r *Reporter) Format() Format {
	return r.format
}

// WriteSummary renders s to w
func (r *Reporter) WriteSummary(w io.Writer, s Summary) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatYAML:
		return writeYAML(w, s)
	case FormatMarkdown:
		return writeMarkdownSummary(w, s)
	default:
		return writeTextSummary(w, s)
	}
}

// WriteInconsistencies renders rep to w
func (r *Reporter) WriteInconsistencies(w io.Writer, rep Inconsistencies) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	case FormatMarkdown:
		return writeMarkdownInconsistencies(w, rep)
	default:
		return writeTextInconsistencies(w, rep)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return enc.Close()
}
