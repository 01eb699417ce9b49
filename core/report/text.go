package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/emenda-labs/surfacediff/core/surface"
)

// textWriter renders the line-oriented report: one tab per nesting level,
// a blank line after each top-level block and after each type.
type textWriter struct {
	w       *bufio.Writer
	label   string
	heading *color.Color
	section *color.Color
	err     error
}

func newTextWriter(w io.Writer, opts Options) *textWriter {
	label := opts.CandidateLabel
	if label == "" {
		label = DefaultCandidateLabel
	}

	tw := &textWriter{
		w:       bufio.NewWriter(w),
		label:   label,
		heading: color.New(color.FgCyan, color.Bold),
		section: color.New(color.FgYellow),
	}
	if opts.Color {
		tw.heading.EnableColor()
		tw.section.EnableColor()
	} else {
		tw.heading.DisableColor()
		tw.section.DisableColor()
	}
	return tw
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) block(title string, items []string) {
	if len(items) == 0 {
		return
	}
	t.line("%s", t.heading.Sprintf("%s:", title))
	for _, it := range items {
		t.line("\t%s", it)
	}
	t.line("")
}

func (t *textWriter) members(title string, items []string) {
	if len(items) == 0 {
		return
	}
	t.line("\t\t%s", t.section.Sprintf("%s:", title))
	for _, it := range items {
		t.line("\t\t\t%s", it)
	}
}

func renderText(w io.Writer, r *surface.Report, opts Options) error {
	t := newTextWriter(w, opts)

	t.block("Types Not In "+t.label, r.TypesNotInCandidate)
	t.block("Types Extra In "+t.label, r.TypesExtraInCandidate)

	if len(r.TypeComparisons) > 0 {
		t.line("%s", t.heading.Sprint("Type Comparisons:"))
		for i := range r.TypeComparisons {
			td := &r.TypeComparisons[i]
			t.line("\t%s", td.TypeName)
			t.members("Fields Not In "+t.label, td.FieldsNotInCandidate)
			t.members("Fields Extra In "+t.label, td.FieldsExtraInCandidate)
			t.members("Properties Not In "+t.label, td.PropertiesNotInCandidate)
			t.members("Properties Extra In "+t.label, td.PropertiesExtraInCandidate)
			t.members("Events Not In "+t.label, td.EventsNotInCandidate)
			t.members("Events Extra In "+t.label, td.EventsExtraInCandidate)
			t.members("Methods Not In "+t.label, td.MethodsNotInCandidate)
			t.members("Methods Extra In "+t.label, td.MethodsExtraInCandidate)
			if len(td.RenameHints) > 0 {
				hints := make([]string, len(td.RenameHints))
				for j, h := range td.RenameHints {
					hints[j] = fmt.Sprintf("%s -> %s", h.From, h.To)
				}
				t.members("Possible Renames", hints)
			}
			t.line("")
		}
	}

	if t.err != nil {
		return fmt.Errorf("writing text report: %w", t.err)
	}
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}
	return nil
}
