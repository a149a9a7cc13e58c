package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocument_Serialize(t *testing.T) {
	doc := NewDocument().
		Header(1, "Widget Class").
		Paragraph("Namespace: Acme").
		Table([]string{"Name", "Description"}, [][]string{
			{"count", "How many | times."},
			{"extra"},
		}).
		CodeBlock("csharp", "public void Do(int count)\n").
		Rule().
		Header(9, "Clamped")

	want := "# Widget Class\n" +
		"\n" +
		"Namespace: Acme\n" +
		"\n" +
		"| Name | Description |\n" +
		"| --- | --- |\n" +
		"| count | How many \\| times. |\n" +
		"| extra |  |\n" +
		"\n" +
		"```csharp\n" +
		"public void Do(int count)\n" +
		"```\n" +
		"\n" +
		"---\n" +
		"\n" +
		"###### Clamped\n"
	require.Equal(t, want, doc.String())
}

func TestDocument_StringIsIdempotent(t *testing.T) {
	doc := NewDocument().Header(2, "Methods").Paragraph("text").CodeBlock("", "x := 1")
	first := doc.String()
	require.Equal(t, first, doc.String())

	again := NewDocument().Header(2, "Methods").Paragraph("text").CodeBlock("", "x := 1")
	require.Equal(t, first, again.String(), "identical block sequences serialize identically")
}

func TestDocument_SealedAfterString(t *testing.T) {
	doc := NewDocument().Paragraph("a")
	_ = doc.String()
	require.Panics(t, func() { doc.Paragraph("b") })
	require.Panics(t, func() { doc.Rule() })
}

func TestDocument_EmptyParagraphIgnored(t *testing.T) {
	doc := NewDocument().Paragraph("  \n ")
	require.Equal(t, 0, doc.Len())
	require.Empty(t, doc.String())
}

func TestDocument_CodeBlockFenceOutgrowsContent(t *testing.T) {
	doc := NewDocument().CodeBlock("md", "```go\nx\n```")
	require.Equal(t, "````md\n```go\nx\n```\n````\n", doc.String())
}

func TestDocument_HeaderIsSingleLine(t *testing.T) {
	doc := NewDocument().Header(3, "Do(\n  int)")
	require.Equal(t, "### Do( int)\n", doc.String())
}

func TestInlineHelpers(t *testing.T) {
	require.Equal(t, "[Widget](./Acme.Widget.md)", Link("Widget", "./Acme.Widget.md"))
	require.Equal(t, "[A](<./My Page.md>)", Link("A", "./My Page.md"))
	require.Equal(t, "plain", Link("plain", ""))
	require.Equal(t, "`x`", Code("x"))
	require.Equal(t, "``a`b``", Code("a`b"))
	require.Equal(t, "`` `x ``", Code("`x"))
	require.Empty(t, Code(""))
	require.Equal(t, "**bold**", Bold("bold"))
	require.Equal(t, `List\<string\>`, Escape("List<string>"))
	require.Equal(t, `a\_b\*c`, Escape("a_b*c"))
	require.Equal(t, `a \| b c`, EscapeTableCell("a | b\nc"))
	require.Equal(t, `a \| b`, EscapeTableCell(`a \| b`))
}
