package linkcheck

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/frontmatter"
	"github.com/stretchr/testify/require"
)

func writePages(t *testing.T, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

const widgetPage = `# Widget class

Namespace: Acme

## Methods

### Do(int)

Uses [Gadget](./Acme.Gadget.md) and [Do](#doint).
`

func TestCheckDir_AllLinksResolve(t *testing.T) {
	dir := writePages(t, map[string]string{
		"index.md":       "# Acme.Widgets\n\n## Acme\n\n[Widget](./Acme.Widget.md)\n\n[Gadget](./Acme.Gadget.md)\n",
		"Acme.Widget.md": widgetPage,
		"Acme.Gadget.md": "# Gadget class\n\nSee [Widget.Do](./Acme.Widget.md#doint) and <https://example.com>.\n",
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "%+v", report.Broken)
	require.Equal(t, 3, report.Pages)
	require.Equal(t, 5, report.Links)
	require.Zero(t, report.Skipped)
}

func TestCheckDir_ReportsBrokenLinks(t *testing.T) {
	dir := writePages(t, map[string]string{
		"Acme.Widget.md": widgetPage,
		"Acme.Gadget.md": "# Gadget class\n\n[a](./Acme.Missing.md) [b](./Acme.Widget.md#nope) [c](#gadget-class) [d](#missing)\n",
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.False(t, report.OK())
	require.Equal(t, []Broken{
		{Page: "Acme.Gadget.md", Destination: "#missing", Reason: ReasonMissingAnchor},
		{Page: "Acme.Gadget.md", Destination: "./Acme.Missing.md", Reason: ReasonMissingPage},
		{Page: "Acme.Gadget.md", Destination: "./Acme.Widget.md#nope", Reason: ReasonMissingAnchor},
	}, report.Broken)
}

func TestCheckDir_SuffixlessConventions(t *testing.T) {
	dir := writePages(t, map[string]string{
		"Acme.Widget.md":      widgetPage,
		"Acme.Gadget.md":      "# Gadget class\n\n[pages](./Acme.Widget#doint) [wiki](Acme.Widget) [nested](Acme.Outer%2BInner)\n",
		"Acme.Outer+Inner.md": "# Outer.Inner class\n",
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "%+v", report.Broken)
}

func TestCheckDir_SkipsExternalAndDependencyLinks(t *testing.T) {
	dir := writePages(t, map[string]string{
		"Acme.Widget.md": "# Widget class\n\n[x](https://example.com/x) [y](../other/Other.Thing.md) [z](deps/Other.Thing.md) [m](mailto:a@example.com)\n",
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Equal(t, 4, report.Skipped)
}

func TestCheckDir_DuplicateHeadingsGetSuffixedAnchors(t *testing.T) {
	dir := writePages(t, map[string]string{
		"Acme.Widget.md": "# Widget class\n\n### Do\n\n### Do\n\n[first](#do) [second](#do-1) [third](#do-2)\n",
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.Len(t, report.Broken, 1)
	require.Equal(t, "#do-2", report.Broken[0].Destination)
}

func TestCheckDir_EscapedHeadings(t *testing.T) {
	dir := writePages(t, map[string]string{
		"Acme.Bag-1.md": "# Bag\\<T\\> class\n\n### Convert\\<TOut\\>(out int, string)\n\n[c](#converttoutout-int-string) [t](#bagt-class)\n",
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "%+v", report.Broken)
}

func TestCheckDir_FrontMatter(t *testing.T) {
	body := []byte(widgetPage)
	page, err := frontmatter.Prepend(frontmatter.Page{Title: "Widget", Module: "Acme.Widgets", Signature: "T:Acme.Widget"}, body)
	require.NoError(t, err)
	edited := append([]byte{}, page...)
	edited = append(edited, []byte("\nHand edit.\n")...)

	dir := writePages(t, map[string]string{
		"Acme.Widget.md": string(page),
		"Acme.Gadget.md": string(edited),
	})

	report, err := CheckDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"Acme.Gadget.md"}, report.Modified)
	// Links in the body still resolve once the front matter is stripped.
	for _, b := range report.Broken {
		require.NotEqual(t, "#doint", b.Destination)
	}
}

func TestCheckDir_Errors(t *testing.T) {
	_, err := CheckDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))

	file := filepath.Join(t.TempDir(), "page.md")
	require.NoError(t, os.WriteFile(file, []byte("# x\n"), 0o600))
	_, err = CheckDir(file)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
