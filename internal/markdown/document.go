package markdown

import (
	"strings"
)

type blockKind int

const (
	blockHeader blockKind = iota
	blockParagraph
	blockTable
	blockCode
	blockRule
)

type block struct {
	kind   blockKind
	level  int
	text   string
	lang   string
	header []string
	rows   [][]string
}

// Document is an append-only sequence of Markdown blocks.
//
// Serializing a document with String seals it; appending to a sealed
// document panics. Identical block sequences always serialize to identical
// text.
type Document struct {
	blocks []block
	sealed bool
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) add(b block) *Document {
	if d.sealed {
		panic("markdown: append to a serialized document")
	}
	d.blocks = append(d.blocks, b)
	return d
}

// Header appends an ATX header. Levels outside 1..6 are clamped.
func (d *Document) Header(level int, text string) *Document {
	level = min(max(level, 1), 6)
	return d.add(block{kind: blockHeader, level: level, text: singleLine(text)})
}

// Paragraph appends a paragraph of inline Markdown. Empty paragraphs are
// ignored.
func (d *Document) Paragraph(text string) *Document {
	text = strings.TrimSpace(text)
	if text == "" {
		return d
	}
	return d.add(block{kind: blockParagraph, text: text})
}

// Table appends a table. Cells are escaped with EscapeTableCell; rows are
// padded or truncated to the header width.
func (d *Document) Table(header []string, rows [][]string) *Document {
	if len(header) == 0 {
		return d
	}
	h := make([]string, len(header))
	copy(h, header)
	r := make([][]string, len(rows))
	for i, row := range rows {
		r[i] = make([]string, len(header))
		copy(r[i], row)
	}
	return d.add(block{kind: blockTable, header: h, rows: r})
}

// CodeBlock appends a fenced code block with an optional language tag.
func (d *Document) CodeBlock(lang, code string) *Document {
	return d.add(block{kind: blockCode, lang: strings.TrimSpace(lang), text: strings.TrimRight(code, "\r\n")})
}

// Rule appends a horizontal rule.
func (d *Document) Rule() *Document {
	return d.add(block{kind: blockRule})
}

// Len returns the number of blocks appended so far.
func (d *Document) Len() int { return len(d.blocks) }

// String serializes the document and seals it.
func (d *Document) String() string {
	d.sealed = true
	if len(d.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, blk := range d.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		writeBlock(&b, blk)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, blk block) {
	switch blk.kind {
	case blockHeader:
		b.WriteString(strings.Repeat("#", blk.level))
		b.WriteByte(' ')
		b.WriteString(blk.text)
		b.WriteByte('\n')
	case blockParagraph:
		b.WriteString(blk.text)
		b.WriteByte('\n')
	case blockTable:
		writeRow(b, blk.header)
		b.WriteByte('|')
		for range blk.header {
			b.WriteString(" --- |")
		}
		b.WriteByte('\n')
		for _, row := range blk.rows {
			writeRow(b, row)
		}
	case blockCode:
		fence := strings.Repeat("`", max(3, longestRun(blk.text, '`')+1))
		b.WriteString(fence)
		b.WriteString(blk.lang)
		b.WriteByte('\n')
		if blk.text != "" {
			b.WriteString(blk.text)
			b.WriteByte('\n')
		}
		b.WriteString(fence)
		b.WriteByte('\n')
	case blockRule:
		b.WriteString("---\n")
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteByte('|')
	for _, c := range cells {
		b.WriteByte(' ')
		b.WriteString(EscapeTableCell(c))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
