package comments

import (
	"strings"
	"unicode"
)

// SegmentKind classifies one piece of documentation text.
type SegmentKind int

const (
	SegText         SegmentKind = iota // plain prose
	SegCode                            // <c>: inline code
	SegCodeBlock                       // <code>: fenced block, Target holds the language
	SegCref                            // <see cref>: Target holds the canonical signature
	SegHref                            // <see href>: Target holds the URL
	SegLangword                        // <see langword>
	SegParamRef                        // <paramref name>
	SegTypeParamRef                    // <typeparamref name>
	SegBreak                           // paragraph boundary
)

// Segment is one piece of documentation text. Text is the visible text; for
// references without inner text it is empty and renderers derive a label from
// Target.
type Segment struct {
	Kind   SegmentKind
	Text   string
	Target string
}

// Text is documentation prose as an ordered list of segments.
type Text []Segment

// IsEmpty reports whether the text has no visible content.
func (t Text) IsEmpty() bool {
	for _, s := range t {
		switch s.Kind {
		case SegBreak:
		case SegText:
			if strings.TrimSpace(s.Text) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// String renders the text without markup. References are shown by their
// label, paragraphs are separated by a blank line.
func (t Text) String() string {
	var b strings.Builder
	for _, s := range t {
		switch s.Kind {
		case SegBreak:
			b.WriteString("\n\n")
		case SegCodeBlock:
			b.WriteString("\n\n")
			b.WriteString(s.Text)
			b.WriteString("\n\n")
		default:
			b.WriteString(s.Label())
		}
	}
	return collapseBlankLines(strings.TrimSpace(b.String()))
}

// FirstSentence returns the first sentence of the plain text, used for
// one-line summaries.
func (t Text) FirstSentence() string {
	plain := strings.Join(strings.Fields(t.String()), " ")
	if idx := strings.Index(plain, ". "); idx >= 0 {
		return plain[:idx+1]
	}
	return plain
}

// Label is the visible text of a segment.
func (s Segment) Label() string {
	if s.Text != "" {
		return s.Text
	}
	switch s.Kind {
	case SegCref:
		return CrefLabel(s.Target)
	case SegHref, SegLangword, SegParamRef, SegTypeParamRef:
		return s.Target
	}
	return ""
}

// CrefLabel derives a short display label from a canonical signature:
// "M:Acme.Widget.Do(System.Int32)" becomes "Widget.Do" and
// "T:System.Collections.Generic.List`1" becomes "List".
func CrefLabel(cref string) string {
	kind, name := "", cref
	if len(cref) > 2 && cref[1] == ':' {
		kind, name = cref[:1], cref[2:]
	}
	if idx := strings.IndexByte(name, '('); idx >= 0 {
		name = name[:idx]
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if idx := strings.IndexByte(p, '`'); idx >= 0 {
			parts[i] = p[:idx]
		}
	}
	if kind != "T" && kind != "N" && len(parts) >= 2 {
		return parts[len(parts)-2] + "." + parts[len(parts)-1]
	}
	return parts[len(parts)-1]
}

// normalize merges adjacent prose, collapses whitespace and trims the text
// at its edges and around paragraph boundaries.
func normalize(in Text) Text {
	var merged Text
	for _, s := range in {
		if s.Kind == SegText {
			s.Text = collapseSpace(s.Text)
			if s.Text == "" {
				continue
			}
			if n := len(merged); n > 0 && merged[n-1].Kind == SegText {
				merged[n-1].Text = collapseSpace(merged[n-1].Text + s.Text)
				continue
			}
		}
		merged = append(merged, s)
	}

	isEdge := func(i int) bool {
		return i < 0 || i >= len(merged) || merged[i].Kind == SegBreak || merged[i].Kind == SegCodeBlock
	}
	for i := range merged {
		if merged[i].Kind != SegText {
			continue
		}
		if isEdge(i - 1) {
			merged[i].Text = strings.TrimLeftFunc(merged[i].Text, unicode.IsSpace)
		}
		if isEdge(i + 1) {
			merged[i].Text = strings.TrimRightFunc(merged[i].Text, unicode.IsSpace)
		}
	}

	var out Text
	for _, s := range merged {
		switch {
		case s.Kind == SegText && s.Text == "":
			continue
		case s.Kind == SegBreak && (len(out) == 0 || out[len(out)-1].Kind == SegBreak):
			continue
		}
		out = append(out, s)
	}
	for len(out) > 0 && out[len(out)-1].Kind == SegBreak {
		out = out[:len(out)-1]
	}
	return out
}

// collapseSpace replaces every whitespace run with a single space while
// keeping one leading or trailing space when present.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if unicode.IsSpace(rune(s[0])) {
		out = " " + out
	}
	if unicode.IsSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// dedent strips leading and trailing blank lines and the common indentation
// of a code block.
func dedent(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	lines := strings.Split(code, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, l := range lines {
		if len(l) >= indent && indent > 0 {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
