package diagfmt

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const inclusionPrefixLine = "In file included from "

// PrinterState implements the cross-command diagnostic dedup and summary
// tally of spec.md §4.C. It lives for exactly one run (one sweep over a
// command list) and must not be reused across watcher iterations.
type PrinterState struct {
	seen                map[uint64]struct{}
	commandsWithOmission int
	totalOmitted        int
}

// NewPrinterState returns a fresh, empty dedup state for one run.
func NewPrinterState() *PrinterState {
	return &PrinterState{seen: make(map[uint64]struct{})}
}

// normalize strips "In file included from ..." prefix lines, producing
// the key used to recognize a diagnostic repeated from an earlier command.
func normalize(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		if strings.Contains(line, inclusionPrefixLine) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Filter removes diagnostics from set whose normalized form was already
// printed for an earlier command in this run, tallying any omissions.
// The set's info line is suppressed if the diagnostic it annotates (the
// final diagnostic in the set) was itself dropped as a repeat.
func (p *PrinterState) Filter(set FormattedDiagSet) FormattedDiagSet {
	kept := make([]FormattedDiag, 0, len(set.Diags))
	var newlySeen []uint64
	skipped := 0
	lastWasSkipped := false

	for i, d := range set.Diags {
		h := xxhash.Sum64String(normalize(d.Lines))
		if _, dup := p.seen[h]; dup {
			skipped++
			if i == len(set.Diags)-1 {
				lastWasSkipped = true
			}
			continue
		}
		kept = append(kept, d)
		newlySeen = append(newlySeen, h)
	}
	for _, h := range newlySeen {
		p.seen[h] = struct{}{}
	}

	info := set.Info
	if skipped > 0 {
		p.commandsWithOmission++
		p.totalOmitted += skipped
		if lastWasSkipped {
			info = nil
		}
	}

	return FormattedDiagSet{Diags: kept, Info: info, UsesColors: set.UsesColors}
}

// Summary returns the trailing end-of-run NOTE line, if any commands had
// diagnostics omitted by dedup.
func (p *PrinterState) Summary() (string, bool) {
	if p.commandsWithOmission == 0 {
		return "", false
	}
	return fmt.Sprintf("NOTE: omitted %s from %s.",
		pluralize(p.totalOmitted, "repeated diagnostic"),
		pluralize(p.commandsWithOmission, "command")), true
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
