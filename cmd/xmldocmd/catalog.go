package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"git.home.luguber.info/inful/xmldocmd/internal/catalog"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
)

// CatalogCmd groups the catalog subcommands.
type CatalogCmd struct {
	Path string `name:"db" short:"d" help:"SQLite catalog file (default: catalog.path from the configuration)" type:"path"`

	Import CatalogImportCmd `cmd:"" help:"Register a generated documentation set from its .meta.json sidecars"`
	List   CatalogListCmd   `cmd:"" help:"List registered modules"`
	Remove CatalogRemoveCmd `cmd:"" help:"Remove a module from the catalog"`
}

// open resolves the catalog path from the flag or the configuration.
func (c *CatalogCmd) open(g *Global, root *CLI) (*catalog.SQLiteCatalog, error) {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return nil, err
	}
	path := c.Path
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return nil, errors.ValidationError("no catalog given: use --db or set catalog.path").Build()
	}
	return catalog.OpenSQLite(path)
}

// CatalogImportCmd implements 'catalog import'.
type CatalogImportCmd struct {
	Module string `arg:"" help:"Module name the documentation set belongs to"`
	Dir    string `arg:"" help:"Directory holding the .meta.json sidecars" type:"existingdir"`
	Base   string `help:"Link base under which the pages are reachable (default: the directory)"`
}

func (c *CatalogImportCmd) Run(g *Global, root *CLI, parent *CatalogCmd) error {
	cat, err := parent.open(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	pages, err := catalog.ReadSidecars(c.Dir)
	if err != nil {
		return err
	}
	base := c.Base
	if base == "" {
		base = c.Dir
	}
	if err := cat.Register(g.Ctx, c.Module, base, pages); err != nil {
		return err
	}
	slog.Info("Imported module", logfields.Module(c.Module), logfields.Count(len(pages)))
	_, _ = fmt.Fprintf(g.Stdout, "Imported %s: %d pages\n", c.Module, len(pages))
	return nil
}

// CatalogListCmd implements 'catalog list'.
type CatalogListCmd struct{}

func (c *CatalogListCmd) Run(g *Global, root *CLI, parent *CatalogCmd) error {
	cat, err := parent.open(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	modules, err := cat.Modules(g.Ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MODULE\tBASE\tSYMBOLS\tREGISTERED")
	for _, m := range modules {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.Name, m.Base, m.Symbols, m.RegisteredAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

// CatalogRemoveCmd implements 'catalog remove'.
type CatalogRemoveCmd struct {
	Module string `arg:"" help:"Module to remove"`
}

func (c *CatalogRemoveCmd) Run(g *Global, root *CLI, parent *CatalogCmd) error {
	cat, err := parent.open(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	if err := cat.Remove(g.Ctx, c.Module); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Removed %s\n", c.Module)
	return nil
}
