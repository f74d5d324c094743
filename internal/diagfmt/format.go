package diagfmt

import (
	"fmt"
	"strings"
)

// FormattedDiag is one rendered top-level diagnostic: an ordered sequence
// of indented text lines for itself and its descendants.
type FormattedDiag struct {
	Lines      []string
	UsesColors bool
}

// FormattedDiagSet is the full rendering of one command's diagnostics,
// plus an optional single-line summary (e.g. an omission note or a
// synthetic parse-failure message).
type FormattedDiagSet struct {
	Diags      []FormattedDiag
	Info       *FormattedDiag
	UsesColors bool
}

// FormatOptions controls rendering.
type FormatOptions struct {
	Colors bool
}

// FormatDiagnostics renders a full diagnostic set per spec.md §4.C: after
// emitting diagnostic i, if it is fatal or an error tagged "Parse Issue",
// rendering stops and an info line records how many diagnostics were
// omitted.
func FormatDiagnostics(diags []Diagnostic, opts FormatOptions) FormattedDiagSet {
	set := FormattedDiagSet{UsesColors: opts.Colors}

	for i, d := range diags {
		lines := formatDiagnostic(d, 0, opts.Colors)
		set.Diags = append(set.Diags, FormattedDiag{Lines: lines, UsesColors: opts.Colors})

		if d.Severity == SeverityFatal || (d.Severity == SeverityError && d.Category == "Parse Issue") {
			omitted := len(diags) - (i + 1)
			if omitted > 0 {
				infoText := fmt.Sprintf("NOTE: omitting %d following diagnostics.", omitted)
				set.Info = &FormattedDiag{Lines: []string{infoText}, UsesColors: opts.Colors}
			}
			break
		}
	}

	return set
}

// formatDiagnostic implements the per-diagnostic formatting contract:
//  1. leading inclusion-prefix children become "In file included from ..."
//     prefix lines at the same indentation;
//  2. the diagnostic's own text is emitted at indent, with " [category]"
//     appended at the top level when category is non-empty;
//  3. remaining children are recursed into at indent+2.
func formatDiagnostic(d Diagnostic, indent int, colors bool) []string {
	pad := strings.Repeat(" ", indent)
	var lines []string

	k := 0
	for ; k < len(d.Children); k++ {
		child := d.Children[k]
		if !child.isInclusionPrefix() {
			break
		}
		prefixed := "In" + child.Spelling[len("in"):]
		lines = append(lines, pad+colorizeText(prefixed, colors))
	}

	own := d.Spelling
	if indent == 0 && d.Category != "" {
		own = own + fmt.Sprintf(" [%s]", d.Category)
	}
	lines = append(lines, pad+colorizeText(own, colors))

	for ; k < len(d.Children); k++ {
		lines = append(lines, formatDiagnostic(d.Children[k], indent+2, colors)...)
	}

	return lines
}
