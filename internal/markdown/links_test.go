package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_PageLinks(t *testing.T) {
	src := []byte("" +
		"[\\< Back](./index.md)\n\n" +
		"| Name | Type |\n| --- | --- |\n| count | [Gadget](./Acme.Gadget.md#doint) |\n\n" +
		"See [Run](#run) and <https://example.com/api>.\n")

	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Equal(t, []LinkRef{
		{Kind: LinkKindInline, Destination: "./index.md"},
		{Kind: LinkKindInline, Destination: "./Acme.Gadget.md#doint"},
		{Kind: LinkKindInline, Destination: "#run"},
		{Kind: LinkKindAuto, Destination: "https://example.com/api"},
	}, links)
}

func TestExtractLinks_ImageAndReferenceDefinition(t *testing.T) {
	src := []byte("![Diagram](diagram.png)\n\nSee [Widget][w].\n\n[w]: ./Acme.Widget.md\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Equal(t, []LinkRef{
		{Kind: LinkKindImage, Destination: "diagram.png"},
		{Kind: LinkKindInline, Destination: "./Acme.Widget.md"},
		{Kind: LinkKindReferenceDefinition, Destination: "./Acme.Widget.md"},
	}, links)
}

func TestExtractLinks_SkipsCode(t *testing.T) {
	src := []byte("" +
		"Inline: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```csharp\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}

func TestLinkRef_Split(t *testing.T) {
	tests := []struct {
		dest, path, anchor string
	}{
		{"./Acme.Widget.md", "./Acme.Widget.md", ""},
		{"./Acme.Widget.md#doint", "./Acme.Widget.md", "doint"},
		{"#run", "", "run"},
		{"./Acme.Bag%601.md#add", "./Acme.Bag`1.md", "add"},
		{"Acme.Outer+Inner", "Acme.Outer+Inner", ""},
	}
	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			path, anchor := LinkRef{Destination: tt.dest}.Split()
			require.Equal(t, tt.path, path)
			require.Equal(t, tt.anchor, anchor)
		})
	}
}

func TestExtractHeadings(t *testing.T) {
	src := []byte("# Bag\\<T\\> Class\n\nText\n\n## Methods\n\n### `Add(T)`\n\nSetext\n---\n")
	headings, err := ExtractHeadings(src, Options{})
	require.NoError(t, err)
	require.Equal(t, []Heading{
		{Level: 1, Text: "Bag<T> Class"},
		{Level: 2, Text: "Methods"},
		{Level: 3, Text: "Add(T)"},
		{Level: 2, Text: "Setext"},
	}, headings)
}

func TestFlattenHeadings(t *testing.T) {
	src := "Intro.\n\n## Usage\n\nSetext *Title*\n============\n\n```go\n# not a heading\n```\n\n> ### Quoted ###\n\nTail."

	got := FlattenHeadings([]byte(src))
	require.Equal(t, "Intro.\n\n**Usage**\n\n**Setext *Title***\n\n```go\n# not a heading\n```\n\n> **Quoted**\n\nTail.", got)

	headings, err := ExtractHeadings([]byte(got), Options{})
	require.NoError(t, err)
	require.Empty(t, headings)

	require.Equal(t, "No headings here.", FlattenHeadings([]byte("No headings here.")))
}
