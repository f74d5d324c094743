package inclgraph

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// EmitDOT writes a Graphviz DOT document for the graph (component D's
// emit_dot). Node labels have stripPrefix removed. When reverse is true,
// every stored edge to → from is printed as from → to instead. When
// edgeLimit > 0, any printed node whose out-degree exceeds edgeLimit
// (strictly, per spec.md §9) has its fan-out collapsed into one edge to
// a placeholder node annotated with the true count.
func (ig *InclusionGraph) EmitDOT(w io.Writer, title string, reverse bool, stripPrefix string, edgeLimit int) error {
	label := func(path string) string {
		return strconv.Quote(strings.TrimPrefix(path, stripPrefix))
	}

	if _, err := fmt.Fprintf(w, "digraph %s {\n", strconv.Quote(title)); err != nil {
		return err
	}

	nodes := ig.IterateFileNames()
	for _, p := range nodes {
		if _, err := fmt.Fprintf(w, "  %s;\n", label(p)); err != nil {
			return err
		}
	}

	// Build the adjacency list in the direction we are about to print.
	printedOut := make(map[string][]string, len(nodes))
	if reverse {
		for _, p := range nodes {
			for _, to := range ig.outEdgePaths(p) {
				printedOut[to] = append(printedOut[to], p)
			}
		}
	} else {
		for _, p := range nodes {
			printedOut[p] = ig.outEdgePaths(p)
		}
	}
	for p := range printedOut {
		sort.Strings(printedOut[p])
	}

	placeholders := 0
	for _, from := range nodes {
		targets := printedOut[from]
		if edgeLimit > 0 && len(targets) > edgeLimit {
			placeholders++
			placeholder := fmt.Sprintf("__collapsed_%d", placeholders)
			if _, err := fmt.Fprintf(w, "  %s [label=%s];\n", placeholder,
				strconv.Quote(fmt.Sprintf("%d more", len(targets)))); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "  %s -> %s;\n", label(from), placeholder); err != nil {
				return err
			}
			continue
		}
		for _, to := range targets {
			if _, err := fmt.Fprintf(w, "  %s -> %s;\n", label(from), label(to)); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
