package generate

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/frontmatter"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/markdown"
	"git.home.luguber.info/inful/xmldocmd/internal/metadata"
	"git.home.luguber.info/inful/xmldocmd/internal/render"
	"git.home.luguber.info/inful/xmldocmd/internal/signature"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// GlobalNamespace heads the index section of types declared outside any
// namespace.
const GlobalNamespace = "(global namespace)"

// writePage writes the page and, when enabled, its sidecar.
func (g *Generator) writePage(page *render.Page) error {
	content := []byte(page.Text)
	if g.opts.FrontMatter {
		var err error
		content, err = frontmatter.Prepend(frontmatter.Page{
			Title:     page.Title,
			Module:    g.module.Name,
			Namespace: page.Type.TopLevelNamespace(),
			Signature: page.Signature,
		}, content)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to build front matter").
				WithContext("page", page.Name).
				Build()
		}
	}
	if err := g.writeFile(page.Name+".md", content); err != nil {
		return err
	}
	if !g.opts.Metadata {
		return nil
	}

	var buf bytes.Buffer
	if err := metadata.Encode(&buf, page.Metadata); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode metadata").
			WithContext("page", page.Name).
			Build()
	}
	return g.writeFile(metadata.SidecarName(page.Name), buf.Bytes())
}

// writeIndex writes the index page: the module name, then one section per
// namespace in name order, each listing its types by name. Types whose page
// could not be laid out are listed as plain text.
func (g *Generator) writeIndex(resolver *links.Resolver, types []*surface.Type) error {
	content := []byte(g.indexText(resolver, types))
	if g.opts.FrontMatter {
		var err error
		content, err = frontmatter.Prepend(frontmatter.Page{Title: g.module.Name, Module: g.module.Name}, content)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to build index front matter").Build()
		}
	}
	if err := g.writeFile(g.opts.IndexPage+".md", content); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write index page").
			Fatal().
			Build()
	}
	return nil
}

type indexEntry struct {
	name string
	page string
	sig  string
}

func (g *Generator) indexText(resolver *links.Resolver, types []*surface.Type) string {
	byNamespace := make(map[string][]indexEntry)
	for _, t := range types {
		sig, err := signature.OfType(t)
		if err != nil {
			continue
		}
		page, _ := signature.PageName(t)
		ns := t.TopLevelNamespace()
		byNamespace[ns] = append(byNamespace[ns], indexEntry{name: signature.TypeDisplayName(t), page: page, sig: sig})
	}

	namespaces := make([]string, 0, len(byNamespace))
	for ns := range byNamespace {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	doc := markdown.NewDocument().Header(1, markdown.Escape(g.module.Name))
	for _, ns := range namespaces {
		title := ns
		if title == "" {
			title = GlobalNamespace
		}
		doc.Header(2, markdown.Escape(title))

		entries := byNamespace[ns]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].name != entries[j].name {
				return entries[i].name < entries[j].name
			}
			return entries[i].page < entries[j].page
		})
		for _, e := range entries {
			doc.Paragraph(resolver.Link(g.opts.IndexPage, e.name, e.sig, g.module.Name))
		}
	}
	return doc.String()
}

// writeFile replaces name inside the output directory through a temporary
// file and a rename, so readers never observe a partial page.
func (g *Generator) writeFile(name string, content []byte) error {
	path := filepath.Join(g.opts.OutputDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
			WithContext("path", path).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to replace file").
			WithContext("path", path).
			Build()
	}
	return nil
}
