package render

import (
	"sort"

	"git.home.luguber.info/inful/xmldocmd/internal/comments"
	"git.home.luguber.info/inful/xmldocmd/internal/examples"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/markdown"
	"git.home.luguber.info/inful/xmldocmd/internal/signature"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// Section titles shared by the layout and the page writer.
const (
	titleRemarks    = "Remarks"
	titleExamples   = "Examples"
	titleTypeParams = "Type Parameters"
)

// groupOrder fixes the order of member sections on a page.
var groupOrder = []struct {
	kind  surface.MemberKind
	title string
}{
	{surface.MemberConstructor, "Constructors"},
	{surface.MemberProperty, "Properties"},
	{surface.MemberMethod, "Methods"},
	{surface.MemberField, "Fields"},
	{surface.MemberEvent, "Events"},
}

// CommentLookup resolves canonical signatures to comment records.
type CommentLookup interface {
	Lookup(signature string) (*comments.Record, bool)
}

// ExampleSource resolves example names to snippets.
type ExampleSource interface {
	Lookup(name string) (examples.Snippet, bool)
}

// PageSpec is the resolved layout of one type page: members grouped and
// ordered, comment records attached, anchors assigned.
type PageSpec struct {
	Type      *surface.Type
	Signature string
	Page      string
	Title     string
	Record    *comments.Record
	Examples  []examples.Snippet
	Groups    []MemberGroup
}

// MemberGroup is one non-empty member section.
type MemberGroup struct {
	Kind    surface.MemberKind
	Title   string
	Members []MemberSpec
}

// MemberSpec is one member subsection.
type MemberSpec struct {
	Member    *surface.Member
	Signature string
	Heading   string
	Anchor    string
	Record    *comments.Record
	Examples  []examples.Snippet
}

// buildPageSpec lays out t. Headings are replayed in page order through one
// slugger so anchors match what a Markdown host generates.
func buildPageSpec(t *surface.Type, store CommentLookup, ex ExampleSource, opts Options) (*PageSpec, error) {
	sig, err := signature.OfType(t)
	if err != nil {
		return nil, renderErr(err, t)
	}
	page, err := signature.PageName(t)
	if err != nil {
		return nil, renderErr(err, t)
	}
	spec := &PageSpec{
		Type:      t,
		Signature: sig,
		Page:      page,
		Title:     signature.TypeDisplayName(t) + " " + kindTitle(t.Kind),
		Record:    lookup(store, sig),
	}
	spec.Examples = findExamples(ex, sig, spec.Record)

	var slugs markdown.Slugger
	slugs.Next(spec.Title)
	if rec := spec.Record; rec != nil && !rec.Remarks.IsEmpty() {
		slugs.Next(titleRemarks)
	}
	if hasExamples(spec.Record, spec.Examples) {
		slugs.Next(titleExamples)
	}
	if len(t.GenericParams) > 0 {
		slugs.Next(titleTypeParams)
	}

	for _, g := range groupOrder {
		var members []MemberSpec
		for _, m := range t.Members {
			if m == nil || m.Kind != g.kind || !(m.IsPublic() || opts.IncludeNonPublic) {
				continue
			}
			msig, err := signature.OfMember(m)
			if err != nil {
				return nil, renderErr(err, t)
			}
			rec := lookup(store, msig)
			members = append(members, MemberSpec{
				Member:    m,
				Signature: msig,
				Heading:   memberHeading(m),
				Record:    rec,
				Examples:  findExamples(ex, msig, rec),
			})
		}
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			a, b := members[i], members[j]
			if a.Member.Name != b.Member.Name {
				return a.Member.Name < b.Member.Name
			}
			return a.Signature < b.Signature
		})
		slugs.Next(g.title)
		for i := range members {
			members[i].Anchor = slugs.Next(members[i].Heading)
		}
		spec.Groups = append(spec.Groups, MemberGroup{Kind: g.kind, Title: g.title, Members: members})
	}
	return spec, nil
}

func renderErr(err error, t *surface.Type) error {
	return errors.WrapError(err, errors.CategoryRender, "cannot render type").
		WithContext("type", t.Name).
		WithContext("namespace", t.TopLevelNamespace()).
		Build()
}

func lookup(store CommentLookup, sig string) *comments.Record {
	if store == nil {
		return nil
	}
	rec, ok := store.Lookup(sig)
	if !ok {
		return nil
	}
	return rec
}

// findExamples returns the snippets named after sig and those referenced by
// the record's <code source> elements, without duplicates.
func findExamples(ex ExampleSource, sig string, rec *comments.Record) []examples.Snippet {
	if ex == nil {
		return nil
	}
	names := []string{signature.ExampleName(sig)}
	if rec != nil {
		names = append(names, rec.ExampleRefs...)
	}
	var out []examples.Snippet
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		if s, ok := ex.Lookup(n); ok {
			out = append(out, s)
		}
	}
	return out
}

func hasExamples(rec *comments.Record, files []examples.Snippet) bool {
	return len(files) > 0 || (rec != nil && len(rec.Examples) > 0)
}

// SymbolIndex maps canonical signatures of the module being documented to
// pages and anchors. It is read-only once built.
type SymbolIndex struct {
	targets  map[string]links.Target
	failures map[string]error
}

// BuildIndex lays out every documentable type and records where each type
// and member is documented. Types whose layout fails are left out and
// reported by Failures; rendering them fails the same way.
func BuildIndex(types []*surface.Type, store CommentLookup, ex ExampleSource, opts Options) *SymbolIndex {
	idx := &SymbolIndex{
		targets:  make(map[string]links.Target),
		failures: make(map[string]error),
	}
	for _, t := range types {
		if !signature.IsDocumentable(t) {
			continue
		}
		spec, err := buildPageSpec(t, store, ex, opts)
		if err != nil {
			idx.failures[signature.TypeFullDisplayName(t)] = err
			continue
		}
		idx.targets[spec.Signature] = links.Target{Page: spec.Page}
		for _, g := range spec.Groups {
			for _, m := range g.Members {
				idx.targets[m.Signature] = links.Target{Page: spec.Page, Anchor: m.Anchor}
			}
		}
	}
	return idx
}

// Lookup implements links.Lookup.
func (idx *SymbolIndex) Lookup(sig string) (links.Target, bool) {
	if idx == nil {
		return links.Target{}, false
	}
	t, ok := idx.targets[sig]
	return t, ok
}

// Len returns the number of indexed signatures.
func (idx *SymbolIndex) Len() int { return len(idx.targets) }

// Failures returns layout errors keyed by type display name.
func (idx *SymbolIndex) Failures() map[string]error { return idx.failures }
