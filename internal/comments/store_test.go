package comments

import (
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Store {
	t.Helper()
	store, err := Load(filepath.Join("testdata", "Acme.Widgets.xml"))
	require.NoError(t, err)
	return store
}

func TestLoad_ParsesRecords(t *testing.T) {
	store := loadFixture(t)

	require.Equal(t, "Acme.Widgets", store.Assembly())
	require.Equal(t, 7, store.Len())

	rec, ok := store.Lookup("M:Acme.Widget.Do(System.Int32)")
	require.True(t, ok)
	require.Equal(t, "Performs the action.", rec.Summary.String())
	require.Len(t, rec.Params, 1)
	require.Equal(t, "count", rec.Params[0].Name)
	require.Equal(t, "How many times to act.", rec.Params[0].Text.String())
	require.Equal(t, "Always true.", rec.Returns.String())
	require.Len(t, rec.Exceptions, 1)
	require.Equal(t, "T:System.ArgumentOutOfRangeException", rec.Exceptions[0].Cref)
	require.Equal(t, "count is negative.", rec.Exceptions[0].Text.String())
	require.Equal(t, []string{"Widget.Do"}, rec.ExampleRefs)
	require.Empty(t, rec.Examples, "a source-only example has no inline text")
}

func TestLookup_IsExactAndCaseSensitive(t *testing.T) {
	store := loadFixture(t)

	_, ok := store.Lookup("M:Acme.Widget.Do(System.Int32)")
	require.True(t, ok)
	_, ok = store.Lookup("m:acme.widget.do(system.int32)")
	require.False(t, ok)
	_, ok = store.Lookup("M:Acme.Widget.Do")
	require.False(t, ok)

	var nilStore *Store
	_, ok = nilStore.Lookup("T:Acme.Widget")
	require.False(t, ok)
}

func TestLoad_OverloadsAreDistinct(t *testing.T) {
	store := loadFixture(t)

	intRec, ok := store.Lookup("M:Acme.Widget.Do(System.Int32)")
	require.True(t, ok)
	strRec, ok := store.Lookup("M:Acme.Widget.Do(System.String)")
	require.True(t, ok)
	require.NotEqual(t, intRec.Summary.String(), strRec.Summary.String())
}

func TestLoad_MixedContent(t *testing.T) {
	store := loadFixture(t)

	widget, ok := store.Lookup("T:Acme.Widget")
	require.True(t, ok)
	require.Equal(t, "A widget that does things.", widget.Summary.String())
	require.Equal(t, "Widgets are cheap to create.\n\nSee Gadget for the heavy variant.", widget.Remarks.String())

	var kinds []SegmentKind
	for _, s := range widget.Remarks {
		kinds = append(kinds, s.Kind)
	}
	require.Equal(t, []SegmentKind{SegText, SegCode, SegText, SegBreak, SegText, SegCref, SegText}, kinds)
	require.Equal(t, "T:Acme.Gadget", widget.Remarks[5].Target)

	item, ok := store.Lookup("P:Acme.Widget.Item(System.Int32)")
	require.True(t, ok)
	require.Equal(t, "The part.", item.Value.String())
	require.Equal(t, SegParamRef, item.Summary[1].Kind)
}

func TestLoad_InlineExampleCode(t *testing.T) {
	store := loadFixture(t)

	add, ok := store.Lookup("M:Acme.Bag`1.Add(`0)")
	require.True(t, ok)
	require.Len(t, add.Examples, 1)
	example := add.Examples[0]
	require.Equal(t, SegText, example[0].Kind)
	require.Equal(t, "Usage:", example[0].Text)
	require.Equal(t, SegCodeBlock, example[1].Kind)
	require.Equal(t, "csharp", example[1].Target)
	require.Equal(t, "var bag = new Bag<int>();\nbag.Add(1);", example[1].Text)

	bag, ok := store.Lookup("T:Acme.Bag`1")
	require.True(t, ok)
	doc, ok := bag.TypeParam("T")
	require.True(t, ok)
	require.Equal(t, "Element type.", doc.String())
}

func TestLoad_MalformedEntriesAreSkippedWithWarnings(t *testing.T) {
	store := loadFixture(t)

	warnings := store.Warnings()
	require.Len(t, warnings, 4)
	require.Equal(t, "member has no name attribute", warnings[0].Message)
	require.Equal(t, "Acme.NoPrefix", warnings[1].Signature)
	require.Contains(t, warnings[2].Message, "duplicate")
	require.Contains(t, warnings[3].String(), "F:Acme.Widget.Max")

	rec, ok := store.Lookup("M:Acme.Widget.Do(System.Int32)")
	require.True(t, ok)
	require.Equal(t, "Performs the action.", rec.Summary.String(), "the first entry wins over a duplicate")

	max, ok := store.Lookup("F:Acme.Widget.Max")
	require.True(t, ok, "an entry with an ignored child is still kept")
	require.Empty(t, max.Params)
}

func TestParse_NotXMLIsFatal(t *testing.T) {
	_, err := Parse(strings.NewReader("<doc><members><member name="))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryComments))

	_, err = Load(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
}

func TestParse_MalformedMemberMarkupIsSkipped(t *testing.T) {
	doc := `<doc><assembly><name>A</name></assembly><members>` +
		`<member name="M:A.Good"><summary>Kept.</summary></member>` +
		`<member name="M:A.Bad"><summary>unclosed</member>` +
		`<member name="M:A.Other"><summary>Also kept.</summary></member>` +
		`<member name="T:A.Empty"/>` +
		`</members></doc>`

	store, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "A", store.Assembly())
	require.Equal(t, []string{"M:A.Good", "M:A.Other", "T:A.Empty"}, store.Signatures())

	good, ok := store.Lookup("M:A.Good")
	require.True(t, ok)
	require.Equal(t, "Kept.", good.Summary.String())

	warnings := store.Warnings()
	require.Len(t, warnings, 1)
	require.Equal(t, 2, warnings[0].Index)
	require.Equal(t, "M:A.Bad", warnings[0].Signature)
	require.Contains(t, warnings[0].Message, "not well-formed")
}

func TestParse_RoundTrip(t *testing.T) {
	type entry struct {
		sig, summary, remarks, returns string
		params                         [][2]string
	}
	entries := []entry{
		{sig: "T:Acme.Alpha", summary: "Alpha type.", remarks: "Some remarks."},
		{sig: "M:Acme.Alpha.Run(System.Int32,System.String)", summary: "Runs.", returns: "A code.",
			params: [][2]string{{"a", "First."}, {"b", "Second."}}},
		{sig: "P:Acme.Alpha.Name", summary: "The name."},
		{sig: "E:Acme.Alpha.Changed", summary: "Raised on change."},
	}

	var b strings.Builder
	b.WriteString("<doc><members>")
	for _, e := range entries {
		b.WriteString(`<member name="` + e.sig + `">`)
		b.WriteString("<summary>" + e.summary + "</summary>")
		if e.remarks != "" {
			b.WriteString("<remarks>" + e.remarks + "</remarks>")
		}
		for _, p := range e.params {
			b.WriteString(`<param name="` + p[0] + `">` + p[1] + "</param>")
		}
		if e.returns != "" {
			b.WriteString("<returns>" + e.returns + "</returns>")
		}
		b.WriteString("</member>")
	}
	b.WriteString("</members></doc>")

	store, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Empty(t, store.Warnings())
	require.Len(t, store.Signatures(), len(entries))

	for _, e := range entries {
		rec, ok := store.Lookup(e.sig)
		require.True(t, ok, e.sig)
		require.Equal(t, e.sig, rec.Signature)
		require.Equal(t, e.summary, rec.Summary.String())
		require.Equal(t, e.remarks, rec.Remarks.String())
		require.Equal(t, e.returns, rec.Returns.String())
		require.Len(t, rec.Params, len(e.params))
		for i, p := range e.params {
			require.Equal(t, p[0], rec.Params[i].Name)
			require.Equal(t, p[1], rec.Params[i].Text.String())
		}
	}
}

func TestText_FirstSentenceAndLabels(t *testing.T) {
	text := Text{{Kind: SegText, Text: "Creates a widget. Then more."}}
	require.Equal(t, "Creates a widget.", text.FirstSentence())
	require.True(t, Text{{Kind: SegBreak}, {Kind: SegText, Text: "  "}}.IsEmpty())
	require.False(t, Text{{Kind: SegCref, Target: "T:A"}}.IsEmpty())

	require.Equal(t, "List", CrefLabel("T:System.Collections.Generic.List`1"))
	require.Equal(t, "Widget.Do", CrefLabel("M:Acme.Widget.Do(System.Int32)"))
	require.Equal(t, "Plain", CrefLabel("Plain"))
}
