package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/metadata"
	"github.com/stretchr/testify/require"
)

func writeSidecar(t *testing.T, dir, page string, records []metadata.Record) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, metadata.Encode(&buf, records))
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadata.SidecarName(page)), buf.Bytes(), 0o600))
}

func coreDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSidecar(t, dir, "Acme.Core.Engine", []metadata.Record{
		{Signature: "T:Acme.Core.Engine", DisplayName: "Engine", Kind: "class"},
		{Signature: "M:Acme.Core.Engine.Start", DisplayName: "Start()", Kind: "method", Anchor: "start"},
	})
	writeSidecar(t, dir, "Acme.Core.Bag-1", []metadata.Record{
		{Signature: "T:Acme.Core.Bag`1", DisplayName: "Bag<T>", Kind: "class"},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Acme.Core.Engine.md"), []byte("# Engine"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.meta.json"), []byte("{"), 0o600))
	return dir
}

func TestReadSidecars(t *testing.T) {
	pages, err := ReadSidecars(coreDocs(t))
	require.NoError(t, err)
	require.Len(t, pages, 2, "pages only; the broken sidecar is skipped")
	require.Equal(t, "Acme.Core.Bag-1", pages[0].Name)
	require.Equal(t, "Acme.Core.Engine", pages[1].Name)
	require.Len(t, pages[1].Records, 2)

	_, err = ReadSidecars(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestDirCatalog(t *testing.T) {
	c, err := NewDirCatalog("Acme.Core", coreDocs(t), "../core")
	require.NoError(t, err)
	require.Equal(t, "Acme.Core", c.Module())
	require.Equal(t, 3, c.Len())

	target, ok := c.Lookup("M:Acme.Core.Engine.Start")
	require.True(t, ok)
	require.Equal(t, links.Target{Base: "../core", Page: "Acme.Core.Engine", Anchor: "start"}, target)

	target, ok = c.Lookup("T:Acme.Core.Bag`1")
	require.True(t, ok)
	require.Equal(t, "Acme.Core.Bag-1", target.Page)

	_, ok = c.Lookup("T:Acme.Core.Missing")
	require.False(t, ok)
}

func TestMulti(t *testing.T) {
	first := links.LookupFunc(func(sig string) (links.Target, bool) {
		return links.Target{Page: "first"}, sig == "T:A"
	})
	second := links.LookupFunc(func(sig string) (links.Target, bool) {
		return links.Target{Page: "second"}, sig == "T:A" || sig == "T:B"
	})
	m := Multi{nil, first, second}

	target, ok := m.Lookup("T:A")
	require.True(t, ok)
	require.Equal(t, "first", target.Page)

	target, ok = m.Lookup("T:B")
	require.True(t, ok)
	require.Equal(t, "second", target.Page)

	_, ok = m.Lookup("T:C")
	require.False(t, ok)
}
