package diagfmt

import (
	"strings"

	"github.com/fatih/color"
)

// colorSubstitution describes one severity-tag color rule (spec.md §4.C):
// substitutions are tried in order and the first match wins. Preceding
// text and the tag itself are always colored; the trailing text (the
// diagnostic message) is colored too for error/warning but not for
// fatal/note, matching the teacher pack's own diagnostic pretty-printer
// (vovakirdan-surge's internal/diagfmt/pretty.go) where only error and
// warning severities tint the message body.
type colorSubstitution struct {
	tag          string
	tagColor     *color.Color
	colorMessage bool
}

var substitutions = []colorSubstitution{
	{"fatal error: ", forcedColor(color.FgHiRed, color.Bold), false},
	{"error: ", forcedColor(color.FgRed, color.Bold), true},
	{"warning: ", forcedColor(color.FgYellow, color.Bold), true},
	{"note: ", forcedColor(color.FgCyan, color.Bold), false},
}

var locationColor = forcedColor(color.FgWhite, color.Bold)

// forcedColor builds a color that always emits its escape codes, so the
// enabled argument of colorizeText alone decides coloring, whether or not
// this process's stdout is a terminal (a worker's stdout is a pipe).
func forcedColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// colorizeText applies the first matching severity-tag substitution to
// text, or returns it unchanged if colors are disabled or no tag matches.
func colorizeText(text string, enabled bool) string {
	if !enabled {
		return text
	}
	for _, sub := range substitutions {
		idx := strings.Index(text, sub.tag)
		if idx < 0 {
			continue
		}
		pre := locationColor.Sprint(text[:idx])
		tag := sub.tagColor.Sprint(sub.tag)
		rest := text[idx+len(sub.tag):]
		if sub.colorMessage {
			rest = sub.tagColor.Sprint(rest)
		}
		return pre + tag + rest
	}
	return text
}
