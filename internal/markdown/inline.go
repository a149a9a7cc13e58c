package markdown

import (
	"strings"
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
)

// Escape backslash-escapes characters that would otherwise start inline
// Markdown or raw HTML (e.g. the brackets of "List<T>").
func Escape(s string) string {
	return escaper.Replace(s)
}

// Link formats an inline link. Destinations containing spaces or parentheses
// are wrapped in angle brackets. An empty target yields text unchanged.
func Link(text, target string) string {
	if target == "" {
		return text
	}
	if strings.ContainsAny(target, " ()") {
		target = "<" + target + ">"
	}
	return "[" + text + "](" + target + ")"
}

// Code formats an inline code span, choosing a delimiter longer than any
// backtick run inside s.
func Code(s string) string {
	s = singleLine(s)
	if s == "" {
		return ""
	}
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// Bold wraps s in strong emphasis.
func Bold(s string) string {
	if s == "" {
		return ""
	}
	return "**" + s + "**"
}

// EscapeTableCell makes s safe inside a table cell: pipes are escaped and
// line breaks become spaces.
func EscapeTableCell(s string) string {
	s = strings.ReplaceAll(s, `\|`, "|")
	s = strings.ReplaceAll(s, "|", `\|`)
	return singleLine(s)
}
