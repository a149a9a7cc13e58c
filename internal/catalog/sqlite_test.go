package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/metadata"
	"github.com/stretchr/testify/require"
)

func TestSQLiteCatalog_RegisterAndLookup(t *testing.T) {
	c, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "Acme.Core", "../core", []Page{{
		Name: "Acme.Core.Engine",
		Records: []metadata.Record{
			{Signature: "T:Acme.Core.Engine", DisplayName: "Engine", Kind: "class"},
			{Signature: "M:Acme.Core.Engine.Start", DisplayName: "Start()", Kind: "method", Anchor: "start"},
			{Signature: ""},
		},
	}}))

	target, ok := c.Lookup("M:Acme.Core.Engine.Start")
	require.True(t, ok)
	require.Equal(t, links.Target{Base: "../core", Page: "Acme.Core.Engine", Anchor: "start"}, target)

	_, ok = c.Lookup("T:Acme.Core.Missing")
	require.False(t, ok)

	modules, err := c.Modules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Equal(t, "Acme.Core", modules[0].Name)
	require.Equal(t, "../core", modules[0].Base)
	require.Equal(t, 2, modules[0].Symbols)
}

func TestSQLiteCatalog_RegisterReplacesModule(t *testing.T) {
	c, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "Acme.Core", "../core", []Page{{
		Name:    "Acme.Core.Old",
		Records: []metadata.Record{{Signature: "T:Acme.Core.Old"}},
	}}))
	require.NoError(t, c.Register(ctx, "Acme.Core", "../core-v2", []Page{{
		Name:    "Acme.Core.New",
		Records: []metadata.Record{{Signature: "T:Acme.Core.New"}},
	}}))

	_, ok := c.Lookup("T:Acme.Core.Old")
	require.False(t, ok, "a re-registered module forgets its previous symbols")
	target, ok := c.Lookup("T:Acme.Core.New")
	require.True(t, ok)
	require.Equal(t, "../core-v2", target.Base)
}

func TestSQLiteCatalog_ExcludingAndRemove(t *testing.T) {
	c, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	shared := []metadata.Record{{Signature: "T:Shared.Thing"}}
	require.NoError(t, c.Register(ctx, "A", "../a", []Page{{Name: "Shared.Thing", Records: shared}}))
	require.NoError(t, c.Register(ctx, "B", "../b", []Page{{Name: "Shared.Thing", Records: shared}}))

	target, ok := c.Lookup("T:Shared.Thing")
	require.True(t, ok)
	require.Equal(t, "../a", target.Base, "ties resolve by module name")

	target, ok = c.Excluding("A").Lookup("T:Shared.Thing")
	require.True(t, ok)
	require.Equal(t, "../b", target.Base)

	require.NoError(t, c.Remove(ctx, "B"))
	_, ok = c.Excluding("A").Lookup("T:Shared.Thing")
	require.False(t, ok)

	modules, err := c.Modules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 1)
}

func TestSQLiteCatalog_LookupErrorsAreLoggedMisses(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	c, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, ok := c.Lookup("T:Acme.Core.Engine")
	require.False(t, ok)
	_, ok = c.Excluding("Acme.Tools").Lookup("T:Acme.Core.Engine")
	require.False(t, ok)

	out := buf.String()
	require.Equal(t, 2, strings.Count(out, "Catalog lookup failed"))
	require.Contains(t, out, "signature=T:Acme.Core.Engine")
}
