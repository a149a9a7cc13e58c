// Package render turns one introspected type plus its documentation comments
// into a Markdown page and the metadata records for its sidecar.
//
// A page is laid out in a fixed order: optional back link, title, namespace,
// summary, declaration, inheritance, remarks, examples, type parameters and
// then the member sections (constructors, properties, methods, fields,
// events). Member sections that are empty after visibility filtering are
// omitted, header included. Within a section members are ordered by name and
// then by canonical signature.
package render

import (
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/comments"
	"git.home.luguber.info/inful/xmldocmd/internal/examples"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/markdown"
	"git.home.luguber.info/inful/xmldocmd/internal/metadata"
	"git.home.luguber.info/inful/xmldocmd/internal/signature"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// DefaultLanguage tags declaration and comment code blocks.
const DefaultLanguage = "csharp"

// Options control page content.
type Options struct {
	BackButton       bool
	IncludeNonPublic bool
	Language         string
}

// Page is a rendered type page.
type Page struct {
	Name      string
	Title     string
	Signature string
	Type      *surface.Type
	Text      string
	Metadata  []metadata.Record
}

// Renderer renders type pages. It only reads shared state, so one Renderer
// may serve concurrent Render calls.
type Renderer struct {
	store    CommentLookup
	resolver *links.Resolver
	examples ExampleSource
	opts     Options
}

// NewRenderer returns a renderer. store and ex may be nil.
func NewRenderer(store CommentLookup, resolver *links.Resolver, ex ExampleSource, opts Options) *Renderer {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if resolver == nil {
		resolver = links.New("", links.Options{}, nil, nil)
	}
	return &Renderer{store: store, resolver: resolver, examples: ex, opts: opts}
}

// Spec lays out t without rendering it.
func (r *Renderer) Spec(t *surface.Type) (*PageSpec, error) {
	if !signature.IsDocumentable(t) {
		return nil, errors.RenderError("type is not documentable").
			WithContext("type", t.Name).
			WithContext("kind", string(t.Kind)).
			Build()
	}
	return buildPageSpec(t, r.store, r.examples, r.opts)
}

// Render renders the page of t. Errors are classified as CategoryRender and
// concern t alone.
func (r *Renderer) Render(t *surface.Type) (*Page, error) {
	spec, err := r.Spec(t)
	if err != nil {
		return nil, err
	}
	w := &pageWriter{
		doc:      markdown.NewDocument(),
		resolver: r.resolver,
		page:     spec.Page,
		lang:     r.opts.Language,
	}
	w.writeType(spec, r.opts)

	records := make([]metadata.Record, 0, 1+memberCount(spec))
	records = append(records, metadata.Record{
		Signature:   spec.Signature,
		DisplayName: signature.TypeDisplayName(t),
		Kind:        string(t.Kind),
		Summary:     summaryOf(spec.Record),
	})
	for _, g := range spec.Groups {
		w.doc.Header(2, g.Title)
		for _, m := range g.Members {
			w.writeMember(m)
			records = append(records, metadata.Record{
				Signature:   m.Signature,
				DisplayName: m.Heading,
				Kind:        string(m.Member.Kind),
				Summary:     summaryOf(m.Record),
				Anchor:      m.Anchor,
			})
		}
	}

	return &Page{
		Name:      spec.Page,
		Title:     spec.Title,
		Signature: spec.Signature,
		Type:      t,
		Text:      w.doc.String(),
		Metadata:  records,
	}, nil
}

func memberCount(spec *PageSpec) int {
	n := 0
	for _, g := range spec.Groups {
		n += len(g.Members)
	}
	return n
}

func summaryOf(rec *comments.Record) string {
	if rec == nil {
		return ""
	}
	return rec.Summary.FirstSentence()
}

// pageWriter appends one page's blocks.
type pageWriter struct {
	doc      *markdown.Document
	resolver *links.Resolver
	page     string
	lang     string
}

func (w *pageWriter) writeType(spec *PageSpec, opts Options) {
	t := spec.Type
	rec := spec.Record
	if opts.BackButton {
		w.doc.Paragraph(markdown.Link(markdown.Escape("< Back"), w.resolver.IndexLink(w.page)))
		w.doc.Rule()
	}
	w.doc.Header(1, markdown.Escape(spec.Title))
	if ns := t.TopLevelNamespace(); ns != "" {
		w.doc.Paragraph("Namespace: " + markdown.Escape(ns))
	}
	if rec != nil {
		w.text(rec.Summary)
	}
	w.doc.CodeBlock(w.lang, typeDeclaration(t))

	if t.Base != nil {
		if def := t.Base.Definition(); def == nil || !implicitBases[def.Namespace+"."+def.Name] {
			w.doc.Paragraph("Inheritance: " + w.typeLink(t.Base))
		}
	}
	if len(t.Interfaces) > 0 {
		ifaces := make([]string, len(t.Interfaces))
		for i, iface := range t.Interfaces {
			ifaces[i] = w.typeLink(iface)
		}
		w.doc.Paragraph("Implements: " + strings.Join(ifaces, ", "))
	}

	if rec != nil && !rec.Remarks.IsEmpty() {
		w.doc.Header(2, titleRemarks)
		w.text(rec.Remarks)
	}
	if hasExamples(rec, spec.Examples) {
		w.doc.Header(2, titleExamples)
		w.writeExamples(rec, spec.Examples)
	}
	if len(t.GenericParams) > 0 {
		w.doc.Header(2, titleTypeParams)
		w.typeParams(t.GenericParams, rec)
	}
	w.seeAlso(rec)
}

func (w *pageWriter) writeMember(m MemberSpec) {
	member := m.Member
	rec := m.Record
	w.doc.Header(3, markdown.Escape(m.Heading))
	if rec != nil {
		w.text(rec.Summary)
	}
	w.doc.CodeBlock(w.lang, declaration(member))

	if len(member.GenericParams) > 0 {
		w.doc.Paragraph(markdown.Bold("Type Parameters"))
		w.typeParams(member.GenericParams, rec)
	}
	if len(member.Parameters) > 0 {
		w.doc.Paragraph(markdown.Bold("Parameters"))
		rows := make([][]string, len(member.Parameters))
		for i, p := range member.Parameters {
			var doc comments.Text
			if rec != nil {
				doc, _ = rec.Param(p.Name)
			}
			rows[i] = []string{markdown.Code(p.Name), w.typeLink(p.Type), w.inline(doc)}
		}
		w.doc.Table([]string{"Name", "Type", "Description"}, rows)
	}

	switch member.Kind {
	case surface.MemberProperty:
		w.doc.Paragraph(markdown.Bold("Property Value:") + " " + w.typeLink(member.Returns))
		if rec != nil {
			w.text(rec.Value)
		}
	case surface.MemberField:
		if member.Returns != nil && member.Declaring.Kind != surface.KindEnum {
			w.doc.Paragraph(markdown.Bold("Field Value:") + " " + w.typeLink(member.Returns))
		}
	case surface.MemberMethod:
		if member.Returns != nil {
			w.doc.Paragraph(markdown.Bold("Returns:") + " " + w.typeLink(member.Returns))
			if rec != nil {
				w.text(rec.Returns)
			}
		}
	}

	if rec == nil {
		w.memberExamples(m)
		return
	}
	if len(rec.Exceptions) > 0 {
		w.doc.Paragraph(markdown.Bold("Exceptions"))
		rows := make([][]string, len(rec.Exceptions))
		for i, ex := range rec.Exceptions {
			rows[i] = []string{
				w.resolver.Link(w.page, comments.CrefLabel(ex.Cref), ex.Cref, ""),
				w.inline(ex.Text),
			}
		}
		w.doc.Table([]string{"Exception", "Condition"}, rows)
	}
	if !rec.Remarks.IsEmpty() {
		w.doc.Paragraph(markdown.Bold("Remarks"))
		w.text(rec.Remarks)
	}
	w.memberExamples(m)
	w.seeAlso(rec)
}

func (w *pageWriter) memberExamples(m MemberSpec) {
	if !hasExamples(m.Record, m.Examples) {
		return
	}
	w.doc.Paragraph(markdown.Bold("Examples"))
	w.writeExamples(m.Record, m.Examples)
}

func (w *pageWriter) writeExamples(rec *comments.Record, files []examples.Snippet) {
	if rec != nil {
		for _, ex := range rec.Examples {
			w.text(ex)
		}
	}
	for _, s := range files {
		lang := s.Language
		if lang == "" && strings.HasSuffix(s.Path, ".md") {
			// Headings inside the snippet would shift the page's anchors.
			w.doc.Paragraph(markdown.FlattenHeadings([]byte(s.Code)))
			continue
		}
		w.doc.CodeBlock(lang, s.Code)
	}
}

func (w *pageWriter) typeParams(params []string, rec *comments.Record) {
	rows := make([][]string, len(params))
	for i, name := range params {
		var doc comments.Text
		if rec != nil {
			doc, _ = rec.TypeParam(name)
		}
		rows[i] = []string{markdown.Code(name), w.inline(doc)}
	}
	w.doc.Table([]string{"Name", "Description"}, rows)
}

func (w *pageWriter) seeAlso(rec *comments.Record) {
	if rec == nil || len(rec.SeeAlso) == 0 {
		return
	}
	refs := make([]string, len(rec.SeeAlso))
	for i, cref := range rec.SeeAlso {
		refs[i] = w.resolver.Link(w.page, comments.CrefLabel(cref), cref, "")
	}
	w.doc.Paragraph("See also: " + strings.Join(refs, ", "))
}
