package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/surfacediff/core/surface"
)

// Format selects the serialized form of a report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultCandidateLabel names the candidate side in text headings.
const DefaultCandidateLabel = "Candidate"

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// CandidateLabel replaces "Candidate" in text headings, e.g. "FNA".
	CandidateLabel string
	// Color enables ANSI colour for text headings.
	Color bool
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *surface.Report, opts Options) error {
	switch opts.Format {
	case "", FormatText:
		return renderText(w, r, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flushing yaml report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}
