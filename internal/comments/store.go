// Package comments parses XML documentation-comment files into records keyed
// by canonical member signature.
//
// The file follows the compiler's documentation-comment convention:
//
//	<doc>
//	  <assembly><name>Acme.Widgets</name></assembly>
//	  <members>
//	    <member name="M:Acme.Widget.Do(System.Int32)">
//	      <summary>Performs the action.</summary>
//	      <param name="count">How often.</param>
//	    </member>
//	  </members>
//	</doc>
//
// Parsing is tolerant per entry: a malformed member is skipped and recorded as
// a Warning, the remaining entries are kept. Lookups are exact and
// case-sensitive.
package comments

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	memberExpr   = xpath.MustCompile("/doc/members/member")
	anyMember    = xpath.MustCompile("//member")
	assemblyExpr = xpath.MustCompile("/doc/assembly/name")
)

// validKinds are the signature prefixes the convention defines.
const validKinds = "NTMPFE!"

// Param is a named piece of documentation (parameter or type parameter).
type Param struct {
	Name string
	Text Text
}

// Exception documents one exception a member may raise.
type Exception struct {
	Cref string
	Text Text
}

// Record is the structured documentation of one type or member.
type Record struct {
	Signature   string
	Summary     Text
	Remarks     Text
	Params      []Param
	TypeParams  []Param
	Returns     Text
	Value       Text
	Exceptions  []Exception
	Examples    []Text
	ExampleRefs []string
	SeeAlso     []string
}

// Param returns the documentation of the named parameter.
func (r *Record) Param(name string) (Text, bool) {
	return findParam(r.Params, name)
}

// TypeParam returns the documentation of the named type parameter.
func (r *Record) TypeParam(name string) (Text, bool) {
	return findParam(r.TypeParams, name)
}

func findParam(params []Param, name string) (Text, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Text, true
		}
	}
	return nil, false
}

// Warning records a skipped or partially understood entry.
type Warning struct {
	Index     int // 1-based position of the member element
	Signature string
	Message   string
}

func (w Warning) String() string {
	if w.Signature == "" {
		return fmt.Sprintf("member #%d: %s", w.Index, w.Message)
	}
	return fmt.Sprintf("member #%d (%s): %s", w.Index, w.Signature, w.Message)
}

// Store is the parsed comment file. It is read-only after construction and
// safe for concurrent lookups.
type Store struct {
	assembly string
	records  map[string]*Record
	warnings []Warning
}

// NewStore returns an empty store. Every lookup misses.
func NewStore() *Store {
	return &Store{records: map[string]*Record{}}
}

// Load parses the comment file at path.
func Load(path string) (*Store, error) {
	// #nosec G304 -- path is provided by the CLI user.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryComments, "failed to read documentation comment file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	store, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// Parse reads a whole comment document. When the document as a whole is not
// well-formed, every <member> element is parsed on its own: broken ones become
// warnings and the rest are kept. Only input without a single readable member
// fails.
func Parse(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryComments, "failed to read documentation comment XML").
			Fatal().
			Build()
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		store := parseFragments(data)
		if store.Len() == 0 {
			return nil, errors.CommentsError("failed to parse documentation comment XML").
				WithCause(err).
				Fatal().
				WithContext("members", len(store.warnings)).
				Build()
		}
		return store, nil
	}

	store := NewStore()
	if name := xmlquery.QuerySelector(doc, assemblyExpr); name != nil {
		store.assembly = strings.TrimSpace(name.InnerText())
	}

	members := xmlquery.QuerySelectorAll(doc, memberExpr)
	if len(members) == 0 {
		members = xmlquery.QuerySelectorAll(doc, anyMember)
	}
	for i, node := range members {
		store.add(i+1, node)
	}
	return store, nil
}

var (
	memberStart  = regexp.MustCompile(`<member[\s/>]`)
	nameAttr     = regexp.MustCompile(`\bname\s*=\s*"([^"]*)"`)
	assemblyName = regexp.MustCompile(`<assembly>\s*<name>([^<]*)</name>`)
)

// parseFragments recovers the members of a document that failed to parse.
// A fragment runs from its opening tag to the first </member>, or to the next
// opening tag when the element is never closed.
func parseFragments(data []byte) *Store {
	store := NewStore()
	if m := assemblyName.FindSubmatch(data); m != nil {
		store.assembly = strings.TrimSpace(string(m[1]))
	}

	starts := memberStart.FindAllIndex(data, -1)
	for i, loc := range starts {
		limit := len(data)
		if i+1 < len(starts) {
			limit = starts[i+1][0]
		}
		frag := memberFragment(data[loc[0]:limit])

		index := i + 1
		doc, err := xmlquery.Parse(bytes.NewReader(frag))
		if err != nil {
			store.warn(index, fragmentName(frag), "member markup is not well-formed XML; skipped")
			continue
		}
		node := xmlquery.QuerySelector(doc, anyMember)
		if node == nil {
			store.warn(index, fragmentName(frag), "member markup is not well-formed XML; skipped")
			continue
		}
		store.add(index, node)
	}
	return store
}

func memberFragment(rest []byte) []byte {
	tagEnd := bytes.IndexByte(rest, '>')
	if tagEnd < 0 {
		return rest
	}
	if tagEnd > 0 && rest[tagEnd-1] == '/' {
		return rest[:tagEnd+1]
	}
	const closing = "</member>"
	if end := bytes.Index(rest, []byte(closing)); end >= 0 {
		return rest[:end+len(closing)]
	}
	return rest
}

func fragmentName(frag []byte) string {
	tag := frag
	if end := bytes.IndexByte(frag, '>'); end >= 0 {
		tag = frag[:end]
	}
	if m := nameAttr.FindSubmatch(tag); m != nil {
		return strings.TrimSpace(string(m[1]))
	}
	return ""
}

func (s *Store) add(index int, node *xmlquery.Node) {
	name := strings.TrimSpace(node.SelectAttr("name"))
	switch {
	case name == "":
		s.warn(index, "", "member has no name attribute")
		return
	case len(name) < 3 || name[1] != ':' || !strings.ContainsRune(validKinds, rune(name[0])):
		s.warn(index, name, "member name lacks a kind prefix")
		return
	case name[0] == '!':
		s.warn(index, name, "compiler could not resolve the documented symbol")
		return
	}
	if _, dup := s.records[name]; dup {
		s.warn(index, name, "duplicate member entry; keeping the first")
		return
	}

	rec := &Record{Signature: name}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "summary":
			rec.Summary = append(rec.Summary, parseText(child)...)
		case "remarks":
			rec.Remarks = append(rec.Remarks, parseText(child)...)
		case "returns":
			rec.Returns = parseText(child)
		case "value":
			rec.Value = parseText(child)
		case "param", "typeparam":
			pname := strings.TrimSpace(child.SelectAttr("name"))
			if pname == "" {
				s.warn(index, name, fmt.Sprintf("<%s> without a name attribute ignored", child.Data))
				continue
			}
			p := Param{Name: pname, Text: parseText(child)}
			if child.Data == "param" {
				rec.Params = append(rec.Params, p)
			} else {
				rec.TypeParams = append(rec.TypeParams, p)
			}
		case "exception":
			cref := strings.TrimSpace(child.SelectAttr("cref"))
			if cref == "" {
				s.warn(index, name, "<exception> without a cref attribute ignored")
				continue
			}
			rec.Exceptions = append(rec.Exceptions, Exception{Cref: cref, Text: parseText(child)})
		case "example":
			rec.ExampleRefs = append(rec.ExampleRefs, exampleRefs(child)...)
			if text := parseText(child); !text.IsEmpty() {
				rec.Examples = append(rec.Examples, text)
			}
		case "seealso":
			if cref := strings.TrimSpace(child.SelectAttr("cref")); cref != "" {
				rec.SeeAlso = append(rec.SeeAlso, cref)
			}
		}
	}
	rec.Summary = normalize(rec.Summary)
	rec.Remarks = normalize(rec.Remarks)
	s.records[name] = rec
}

func (s *Store) warn(index int, signature, message string) {
	s.warnings = append(s.warnings, Warning{Index: index, Signature: signature, Message: message})
}

// Lookup returns the record stored under signature. Matching is exact.
func (s *Store) Lookup(signature string) (*Record, bool) {
	if s == nil {
		return nil, false
	}
	rec, ok := s.records[signature]
	return rec, ok
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Assembly returns the assembly name declared by the file, if any.
func (s *Store) Assembly() string { return s.assembly }

// Warnings returns the entries skipped or partially ignored during parsing.
func (s *Store) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

// Signatures returns every stored signature in sorted order.
func (s *Store) Signatures() []string {
	out := make([]string, 0, len(s.records))
	for sig := range s.records {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}

// exampleRefs collects <code source="..."/> references of an <example>,
// reduced to their base name without extension.
func exampleRefs(example *xmlquery.Node) []string {
	var refs []string
	for _, code := range xmlquery.Find(example, ".//code[@source]") {
		src := strings.TrimSpace(code.SelectAttr("source"))
		if src == "" {
			continue
		}
		src = src[strings.LastIndexAny(src, `/\`)+1:]
		if dot := strings.LastIndexByte(src, '.'); dot > 0 {
			src = src[:dot]
		}
		refs = append(refs, src)
	}
	return refs
}

// parseText converts the mixed content of a documentation element.
func parseText(n *xmlquery.Node) Text {
	var out Text
	appendNodes(&out, n)
	return normalize(out)
}

func appendNodes(out *Text, n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			*out = append(*out, Segment{Kind: SegText, Text: c.Data})
		case xmlquery.ElementNode:
			appendElement(out, c)
		}
	}
}

func appendElement(out *Text, e *xmlquery.Node) {
	inner := strings.Join(strings.Fields(e.InnerText()), " ")
	switch e.Data {
	case "see":
		switch {
		case e.SelectAttr("cref") != "":
			*out = append(*out, Segment{Kind: SegCref, Text: inner, Target: strings.TrimSpace(e.SelectAttr("cref"))})
		case e.SelectAttr("href") != "":
			*out = append(*out, Segment{Kind: SegHref, Text: inner, Target: strings.TrimSpace(e.SelectAttr("href"))})
		case e.SelectAttr("langword") != "":
			*out = append(*out, Segment{Kind: SegLangword, Target: strings.TrimSpace(e.SelectAttr("langword"))})
		default:
			*out = append(*out, Segment{Kind: SegText, Text: inner})
		}
	case "paramref":
		*out = append(*out, Segment{Kind: SegParamRef, Target: strings.TrimSpace(e.SelectAttr("name"))})
	case "typeparamref":
		*out = append(*out, Segment{Kind: SegTypeParamRef, Target: strings.TrimSpace(e.SelectAttr("name"))})
	case "c":
		*out = append(*out, Segment{Kind: SegCode, Text: inner})
	case "code":
		if e.SelectAttr("source") != "" && strings.TrimSpace(e.InnerText()) == "" {
			return
		}
		lang := e.SelectAttr("language")
		if lang == "" {
			lang = e.SelectAttr("lang")
		}
		*out = append(*out, Segment{Kind: SegCodeBlock, Text: dedent(e.InnerText()), Target: lang})
	case "para", "br":
		*out = append(*out, Segment{Kind: SegBreak})
		appendNodes(out, e)
		*out = append(*out, Segment{Kind: SegBreak})
	case "list":
		for item := e.FirstChild; item != nil; item = item.NextSibling {
			if item.Type != xmlquery.ElementNode || item.Data != "item" {
				continue
			}
			*out = append(*out, Segment{Kind: SegBreak}, Segment{Kind: SegText, Text: "- "})
			appendNodes(out, item)
		}
		*out = append(*out, Segment{Kind: SegBreak})
	case "seealso":
	default:
		appendNodes(out, e)
	}
}
