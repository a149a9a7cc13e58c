// Package signature derives the canonical keys that tie introspected types and
// members to documentation comments, and the names used for pages and links.
//
// Canonical signatures follow the documentation-comment ID convention:
//
//	T:Acme.Collections.Bag`1
//	M:Acme.Collections.Bag`1.Add(`0)
//	M:Acme.Widget.#ctor(System.Int32,System.String)
//	M:Acme.Widget.Convert``1(System.Collections.Generic.List{``0})
//	P:Acme.Widget.Item(System.Int32)
//	M:Acme.Money.op_Implicit(Acme.Money)~System.Decimal
//
// Signatures are built from the full parameter-type list and generic arity,
// so overloads and generic variants never collide.
package signature

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// Kind prefixes of canonical signatures.
const (
	PrefixType     = "T:"
	PrefixMethod   = "M:"
	PrefixProperty = "P:"
	PrefixField    = "F:"
	PrefixEvent    = "E:"
)

// OfType returns the canonical signature of a declared type.
func OfType(t *surface.Type) (string, error) {
	if t == nil || t.Name == "" {
		return "", errors.SignatureError("type has no name").Build()
	}
	return PrefixType + typeFullName(t), nil
}

// OfMember returns the canonical signature of a member.
func OfMember(m *surface.Member) (string, error) {
	if m == nil {
		return "", errors.SignatureError("nil member").Build()
	}
	if m.Declaring == nil {
		return "", errors.SignatureError("member has no declaring type").
			WithContext("member", m.Name).
			Build()
	}
	if m.Name == "" && m.Kind != surface.MemberConstructor {
		return "", errors.SignatureError("member has no name").
			WithContext("type", m.Declaring.Name).
			Build()
	}

	var b strings.Builder
	switch m.Kind {
	case surface.MemberConstructor, surface.MemberMethod:
		b.WriteString(PrefixMethod)
	case surface.MemberProperty:
		b.WriteString(PrefixProperty)
	case surface.MemberField:
		b.WriteString(PrefixField)
	case surface.MemberEvent:
		b.WriteString(PrefixEvent)
	default:
		return "", errors.SignatureError("unknown member kind").
			WithContext("kind", string(m.Kind)).
			WithContext("member", m.Name).
			Build()
	}
	b.WriteString(typeFullName(m.Declaring))
	b.WriteByte('.')
	b.WriteString(memberName(m))

	scope := scopeOf(m)
	if m.Kind == surface.MemberMethod && len(m.GenericParams) > 0 {
		b.WriteString("``")
		b.WriteString(strconv.Itoa(len(m.GenericParams)))
	}
	if takesParameterList(m) && len(m.Parameters) > 0 {
		b.WriteByte('(')
		for i, p := range m.Parameters {
			if p == nil || p.Type == nil {
				return "", errors.SignatureError("parameter has no type").
					WithContext("member", m.Name).
					WithContext("position", i).
					Build()
			}
			if i > 0 {
				b.WriteByte(',')
			}
			enc, err := encodeRef(p.Type, scope)
			if err != nil {
				return "", wrapMemberErr(err, m)
			}
			b.WriteString(enc)
		}
		b.WriteByte(')')
	}
	if m.Kind == surface.MemberMethod && (m.Name == "op_Implicit" || m.Name == "op_Explicit") {
		if m.Returns == nil {
			return "", errors.SignatureError("conversion operator without return type").
				WithContext("member", m.Name).
				Build()
		}
		enc, err := encodeRef(m.Returns, scope)
		if err != nil {
			return "", wrapMemberErr(err, m)
		}
		b.WriteByte('~')
		b.WriteString(enc)
	}
	return b.String(), nil
}

// TypeName encodes a referenced type the way it appears inside member
// signatures, e.g. "System.Collections.Generic.List{System.String}".
func TypeName(ref *surface.TypeRef) (string, error) {
	return encodeRef(ref, genericScope{typeArity: -1, methodArity: -1})
}

func wrapMemberErr(err error, m *surface.Member) error {
	return errors.WrapError(err, errors.CategorySignature, "cannot encode member signature").
		WithContext("type", m.Declaring.Name).
		WithContext("member", m.Name).
		Build()
}

func takesParameterList(m *surface.Member) bool {
	switch m.Kind {
	case surface.MemberConstructor, surface.MemberMethod, surface.MemberProperty:
		return true
	}
	return false
}

func memberName(m *surface.Member) string {
	if m.Kind == surface.MemberConstructor {
		if m.Static {
			return "#cctor"
		}
		return "#ctor"
	}
	// Explicit interface implementations carry dotted names.
	return strings.ReplaceAll(m.Name, ".", "#")
}

// genericScope bounds generic parameter positions; -1 disables the check.
type genericScope struct {
	typeArity   int
	methodArity int
}

func scopeOf(m *surface.Member) genericScope {
	total := 0
	for t := m.Declaring; t != nil; t = t.Declaring {
		total += t.Arity()
	}
	return genericScope{typeArity: total, methodArity: len(m.GenericParams)}
}

func encodeRef(r *surface.TypeRef, scope genericScope) (string, error) {
	switch {
	case r == nil:
		return "", errors.SignatureError("missing type reference").Build()
	case r.Param != nil:
		limit, marker := scope.typeArity, "`"
		if r.Param.Method {
			limit, marker = scope.methodArity, "``"
		}
		if r.Param.Position < 0 || (limit >= 0 && r.Param.Position >= limit) {
			return "", errors.SignatureError("generic parameter position out of range").
				WithContext("parameter", r.Param.Name).
				WithContext("position", r.Param.Position).
				Build()
		}
		return marker + strconv.Itoa(r.Param.Position), nil
	case r.Elem != nil:
		inner, err := encodeRef(r.Elem, scope)
		if err != nil {
			return "", err
		}
		return inner + shapeSuffix(r), nil
	case r.Name == "":
		return "", errors.SignatureError("type reference has no name").Build()
	}

	chain := refChain(r)
	args := r.Args
	var b strings.Builder
	if ns := chain[0].Namespace; ns != "" {
		b.WriteString(ns)
		b.WriteByte('.')
	}
	for i, level := range chain {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(level.Name)
		if level.Arity == 0 {
			continue
		}
		if len(r.Args) == 0 {
			b.WriteByte('`')
			b.WriteString(strconv.Itoa(level.Arity))
			continue
		}
		if len(args) < level.Arity {
			return "", errors.SignatureError("generic argument count does not match arity").
				WithContext("type", r.Name).
				Build()
		}
		b.WriteByte('{')
		for j, a := range args[:level.Arity] {
			if j > 0 {
				b.WriteByte(',')
			}
			enc, err := encodeRef(a, scope)
			if err != nil {
				return "", err
			}
			b.WriteString(enc)
		}
		b.WriteByte('}')
		args = args[level.Arity:]
	}
	if len(args) > 0 {
		return "", errors.SignatureError("generic argument count does not match arity").
			WithContext("type", r.Name).
			Build()
	}
	return b.String(), nil
}

func shapeSuffix(r *surface.TypeRef) string {
	var s string
	switch {
	case r.Array == 1:
		s = "[]"
	case r.Array > 1:
		dims := make([]string, r.Array)
		for i := range dims {
			dims[i] = "0:"
		}
		s = "[" + strings.Join(dims, ",") + "]"
	}
	if r.Pointer {
		s += "*"
	}
	if r.ByRef {
		s += "@"
	}
	return s
}

// refChain returns the declaring chain of r, outermost first.
func refChain(r *surface.TypeRef) []*surface.TypeRef {
	var chain []*surface.TypeRef
	for cur := r; cur != nil; cur = cur.Declaring {
		chain = append([]*surface.TypeRef{cur}, chain...)
	}
	return chain
}

// typeChain returns the declaring chain of t, outermost first.
func typeChain(t *surface.Type) []*surface.Type {
	var chain []*surface.Type
	for cur := t; cur != nil; cur = cur.Declaring {
		chain = append([]*surface.Type{cur}, chain...)
	}
	return chain
}

func typeFullName(t *surface.Type) string {
	chain := typeChain(t)
	var b strings.Builder
	if ns := chain[0].Namespace; ns != "" {
		b.WriteString(ns)
		b.WriteByte('.')
	}
	for i, level := range chain {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(level.Name)
		if n := level.Arity(); n > 0 {
			b.WriteByte('`')
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

// IsDocumentable reports whether a page is generated for t. Delegates are
// never documented; nested types only when every declaring type is public.
func IsDocumentable(t *surface.Type) bool {
	if t == nil || t.IsDelegate() {
		return false
	}
	for cur := t; cur != nil; cur = cur.Declaring {
		if !cur.IsPublic() {
			return false
		}
	}
	return true
}
