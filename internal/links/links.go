// Package links computes link strings between generated pages.
//
// Three output-path conventions are supported:
//
//	default       ./Acme.Widget.md
//	GitHub Pages  ./Acme.Widget
//	wiki          Acme.Widget
//
// Types declared in the module being documented resolve through the local
// symbol lookup. Types from other modules resolve only when dependency links
// are enabled, through an injected lookup over that module's metadata.
// Anything unresolved renders as plain text.
package links

import (
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/markdown"
)

// DefaultIndexPage is the base name of the index page.
const DefaultIndexPage = "index"

// Options select the output-path convention. They are fixed for a run.
type Options struct {
	GitHubPages     bool
	Wiki            bool
	DependencyLinks bool
	IndexPage       string
}

// Target locates a page, or a heading within it. Base is empty for pages of
// the module being documented and holds the location of another module's
// documentation set otherwise.
type Target struct {
	Base   string
	Page   string
	Anchor string
}

// Lookup maps a canonical signature to the page documenting it.
type Lookup interface {
	Lookup(signature string) (Target, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(signature string) (Target, bool)

func (f LookupFunc) Lookup(signature string) (Target, bool) { return f(signature) }

// Resolver formats links for one module's documentation run.
type Resolver struct {
	module string
	opts   Options
	local  Lookup
	deps   Lookup
}

// New returns a resolver for module. local resolves the module's own symbols,
// deps those of referenced modules; either may be nil.
func New(module string, opts Options, local, deps Lookup) *Resolver {
	if opts.IndexPage == "" {
		opts.IndexPage = DefaultIndexPage
	}
	return &Resolver{module: module, opts: opts, local: local, deps: deps}
}

// Module returns the name of the module being documented.
func (r *Resolver) Module() string { return r.module }

// Options returns the resolver's options.
func (r *Resolver) Options() Options { return r.opts }

// Resolve returns the link string from fromPage to target.
func (r *Resolver) Resolve(fromPage string, to Target) string {
	if to.Base == "" && to.Page == fromPage && to.Anchor != "" {
		return "#" + to.Anchor
	}

	path := to.Page
	if !r.opts.GitHubPages && !r.opts.Wiki {
		path += ".md"
	}
	if to.Base != "" {
		path = strings.TrimRight(to.Base, "/") + "/" + path
	} else {
		path = "./" + path
	}
	if r.opts.Wiki {
		path = strings.TrimPrefix(path, "./")
	}
	if to.Anchor != "" {
		path += "#" + to.Anchor
	}
	return path
}

// Target resolves signature, declared in module, to a page. Symbols of the
// module being documented use the local lookup; symbols of other modules
// need dependency links. An empty module (e.g. a cref) tries both.
func (r *Resolver) Target(signature, module string) (Target, bool) {
	local := module == "" || module == r.module
	if local && r.local != nil {
		if t, ok := r.local.Lookup(signature); ok {
			t.Base = ""
			return t, true
		}
	}
	if module == r.module || !r.opts.DependencyLinks || r.deps == nil {
		return Target{}, false
	}
	// A dependency target without a base would read as a page of this
	// module, which does not exist.
	t, ok := r.deps.Lookup(signature)
	if !ok || t.Page == "" || t.Base == "" {
		return Target{}, false
	}
	return t, true
}

// Link renders text as a Markdown link to signature, or as escaped plain text
// when the target cannot be resolved.
func (r *Resolver) Link(fromPage, text, signature, module string) string {
	label := markdown.Escape(text)
	t, ok := r.Target(signature, module)
	if !ok {
		return label
	}
	return markdown.Link(label, r.Resolve(fromPage, t))
}

// IndexLink returns the link target of the index page as seen from fromPage.
func (r *Resolver) IndexLink(fromPage string) string {
	return r.Resolve(fromPage, Target{Page: r.opts.IndexPage})
}
