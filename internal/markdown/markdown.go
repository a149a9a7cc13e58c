package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ParseBody parses a Markdown body (front matter already removed) into a Goldmark AST.
func ParseBody(body []byte, _ Options) (gmast.Node, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))
	return root, nil
}

// ExtractLinks parses a Markdown body and extracts link-like constructs.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte, _ Options) ([]LinkRef, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]LinkRef, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, LinkRef{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, LinkRef{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, LinkRef{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, LinkRef{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}

// ExtractHeadings returns every ATX or setext heading of body in document
// order. Heading text is the rendered plain text: emphasis markers, code span
// delimiters and backslash escapes are removed.
func ExtractHeadings(body []byte, opts Options) ([]Heading, error) {
	root, err := ParseBody(body, opts)
	if err != nil {
		return nil, err
	}

	headings := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var b strings.Builder
		writePlainText(&b, h, body)
		headings = append(headings, Heading{Level: h.Level, Text: unescapePunctuation(b.String())})
		return gmast.WalkSkipChildren, nil
	})
	return headings, nil
}

func writePlainText(b *strings.Builder, n gmast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		default:
			writePlainText(b, c, src)
		}
	}
}

// unescapePunctuation drops the backslash of "\X" escapes where X is ASCII
// punctuation.
func unescapePunctuation(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

// FlattenHeadings rewrites every heading of body as a bold line, so the text
// can be embedded in a page without adding anchors to it. Fenced code and
// everything else is left as written.
func FlattenHeadings(body []byte) string {
	root, err := ParseBody(body, Options{})
	if err != nil {
		return string(body)
	}

	type edit struct {
		start, end int
		text       string
	}
	var edits []edit
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return gmast.WalkSkipChildren, nil
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(body))))
		}
		bold := Bold(strings.Join(parts, " "))

		// Paragraph segments of setext headings keep their newline.
		contentEnd := last.Stop
		if contentEnd > last.Start {
			contentEnd--
		}
		lineStart := strings.LastIndexByte(string(body[:first.Start]), '\n') + 1
		if marker := strings.IndexByte(string(body[lineStart:first.Start]), '#'); marker >= 0 {
			edits = append(edits, edit{start: lineStart + marker, end: lineEnd(body, contentEnd), text: bold})
			return gmast.WalkSkipChildren, nil
		}
		// Setext: the underline is the line after the content.
		end := lineEnd(body, contentEnd)
		if end < len(body) {
			end = lineEnd(body, end+1)
		}
		edits = append(edits, edit{start: first.Start, end: end, text: bold})
		return gmast.WalkSkipChildren, nil
	})

	if len(edits) == 0 {
		return string(body)
	}
	var b strings.Builder
	b.Grow(len(body))
	prev := 0
	for _, e := range edits {
		b.Write(body[prev:e.start])
		b.WriteString(e.text)
		prev = e.end
	}
	b.Write(body[prev:])
	return b.String()
}

// lineEnd returns the offset of the newline ending the line that contains
// offset, or len(body).
func lineEnd(body []byte, offset int) int {
	if offset >= len(body) {
		return len(body)
	}
	if i := strings.IndexByte(string(body[offset:]), '\n'); i >= 0 {
		return offset + i
	}
	return len(body)
}
