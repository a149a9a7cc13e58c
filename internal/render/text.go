package render

import (
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/comments"
	"git.home.luguber.info/inful/xmldocmd/internal/markdown"
	"git.home.luguber.info/inful/xmldocmd/internal/signature"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// text appends comment prose as paragraphs and code blocks.
func (w *pageWriter) text(t comments.Text) {
	var para strings.Builder
	flush := func() {
		w.doc.Paragraph(para.String())
		para.Reset()
	}
	for _, s := range t {
		switch s.Kind {
		case comments.SegBreak:
			flush()
		case comments.SegCodeBlock:
			flush()
			lang := s.Target
			if lang == "" {
				lang = w.lang
			}
			w.doc.CodeBlock(lang, s.Text)
		default:
			para.WriteString(w.segment(s))
		}
	}
	flush()
}

// inline renders comment prose on a single line, for table cells.
func (w *pageWriter) inline(t comments.Text) string {
	var b strings.Builder
	for _, s := range t {
		switch s.Kind {
		case comments.SegBreak:
			b.WriteByte(' ')
		case comments.SegCodeBlock:
			b.WriteByte(' ')
			b.WriteString(markdown.Code(s.Text))
			b.WriteByte(' ')
		default:
			b.WriteString(w.segment(s))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func (w *pageWriter) segment(s comments.Segment) string {
	switch s.Kind {
	case comments.SegText:
		return markdown.Escape(s.Text)
	case comments.SegCode:
		return markdown.Code(s.Text)
	case comments.SegCref:
		return w.resolver.Link(w.page, s.Label(), s.Target, "")
	case comments.SegHref:
		return markdown.Link(markdown.Escape(s.Label()), s.Target)
	case comments.SegLangword, comments.SegParamRef, comments.SegTypeParamRef:
		return markdown.Code(s.Label())
	}
	return ""
}

// typeLink renders a type reference with links on every named type:
// "[List](...)\<[Widget](...)\>".
func (w *pageWriter) typeLink(ref *surface.TypeRef) string {
	switch {
	case ref == nil:
		return markdown.Code("void")
	case ref.Param != nil:
		return markdown.Escape(signature.DisplayName(ref))
	case ref.Elem != nil:
		return w.typeLink(ref.Elem) + markdown.Escape(shapeText(ref))
	case ref.Namespace == "System" && ref.Name == "Nullable" && len(ref.Args) == 1:
		return w.typeLink(ref.Args[0]) + "?"
	}

	def := ref.Definition()
	name, err := signature.TypeName(def)
	if err != nil {
		return markdown.Escape(signature.DisplayName(ref))
	}
	sig := signature.PrefixType + name
	if len(ref.Args) == 0 || ref.Declaring != nil {
		return w.resolver.Link(w.page, signature.DisplayName(ref), sig, ref.Module)
	}
	args := make([]string, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = w.typeLink(a)
	}
	return w.resolver.Link(w.page, ref.Name, sig, ref.Module) +
		markdown.Escape("<") + strings.Join(args, ", ") + markdown.Escape(">")
}

// shapeText is the array or pointer suffix of a constructed type.
func shapeText(ref *surface.TypeRef) string {
	var s string
	switch {
	case ref.Array == 1:
		s = "[]"
	case ref.Array > 1:
		s = "[" + strings.Repeat(",", ref.Array-1) + "]"
	}
	if ref.Pointer {
		s += "*"
	}
	return s
}
