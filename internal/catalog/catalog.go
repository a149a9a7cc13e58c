// Package catalog resolves symbols of referenced modules to their already
// generated documentation.
//
// A catalog answers links.Lookup queries with a Target whose Base locates
// the other module's documentation set. Two sources exist: a directory of
// metadata sidecars (DirCatalog) and a SQLite database that accumulates the
// records of many generation runs (SQLiteCatalog).
package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
	"git.home.luguber.info/inful/xmldocmd/internal/metadata"
)

// DirCatalog serves the sidecars of one documentation set, read eagerly.
type DirCatalog struct {
	module  string
	base    string
	targets map[string]links.Target
}

// Page is the metadata of one generated page.
type Page struct {
	Name    string
	Records []metadata.Record
}

// ReadSidecars reads the pages of a documentation set from the
// "*.meta.json" files in dir, in file name order. Unreadable sidecars are
// skipped with a warning.
func ReadSidecars(dir string) ([]Page, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.CatalogError("dependency docs directory not accessible").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+metadata.SidecarSuffix))
	if err != nil {
		return nil, errors.CatalogError("invalid dependency docs path").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	sort.Strings(matches)

	pages := make([]Page, 0, len(matches))
	for _, path := range matches {
		records, err := metadata.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable sidecar", logfields.Path(path), logfields.Error(err))
			continue
		}
		pages = append(pages, Page{Name: metadata.PageOf(filepath.Base(path)), Records: records})
	}
	return pages, nil
}

// NewDirCatalog reads the sidecars in dir. base is the link prefix of that
// documentation set as seen from the pages being generated, e.g.
// "../Acme.Core" or "https://docs.example.com/core".
func NewDirCatalog(module, dir, base string) (*DirCatalog, error) {
	pages, err := ReadSidecars(dir)
	if err != nil {
		return nil, err
	}
	c := &DirCatalog{module: module, base: base, targets: make(map[string]links.Target)}
	for _, p := range pages {
		c.add(p.Name, p.Records)
	}
	slog.Debug("Loaded dependency catalog",
		logfields.Module(module),
		logfields.Path(dir),
		logfields.Count(len(c.targets)))
	return c, nil
}

func (c *DirCatalog) add(page string, records []metadata.Record) {
	for _, rec := range records {
		if rec.Signature == "" {
			continue
		}
		if _, dup := c.targets[rec.Signature]; dup {
			continue
		}
		c.targets[rec.Signature] = links.Target{Base: c.base, Page: page, Anchor: rec.Anchor}
	}
}

// Module returns the name of the module the catalog documents.
func (c *DirCatalog) Module() string { return c.module }

// Len returns the number of known signatures.
func (c *DirCatalog) Len() int { return len(c.targets) }

// Lookup implements links.Lookup.
func (c *DirCatalog) Lookup(signature string) (links.Target, bool) {
	t, ok := c.targets[signature]
	return t, ok
}

// Multi consults several lookups in order and returns the first match.
type Multi []links.Lookup

// Lookup implements links.Lookup.
func (m Multi) Lookup(signature string) (links.Target, bool) {
	for _, l := range m {
		if l == nil {
			continue
		}
		if t, ok := l.Lookup(signature); ok {
			return t, true
		}
	}
	return links.Target{}, false
}
