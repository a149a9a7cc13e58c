package signature

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
	"golang.org/x/text/unicode/norm"
)

// NestedSeparator joins a nested type to its declaring type in page names.
// It cannot occur in identifiers, so "Acme.Outer+Inner" never collides with
// a type "Inner" in namespace "Acme.Outer".
const NestedSeparator = "+"

// ArityMarker precedes the generic arity in page names ("Acme.Bag-1").
const ArityMarker = "-"

// Link is the display text and page name of a type, without any path prefix.
type Link struct {
	Text string
	Page string
}

// keywordAliases maps System primitives to their language keywords.
var keywordAliases = map[string]string{
	"Boolean": "bool",
	"Byte":    "byte",
	"SByte":   "sbyte",
	"Char":    "char",
	"Decimal": "decimal",
	"Double":  "double",
	"Single":  "float",
	"Int16":   "short",
	"UInt16":  "ushort",
	"Int32":   "int",
	"UInt32":  "uint",
	"Int64":   "long",
	"UInt64":  "ulong",
	"IntPtr":  "nint",
	"UIntPtr": "nuint",
	"Object":  "object",
	"String":  "string",
	"Void":    "void",
}

// PageName returns the filesystem-safe page name of t, without extension.
func PageName(t *surface.Type) (string, error) {
	if t == nil || t.Name == "" {
		return "", errors.SignatureError("type has no name").Build()
	}
	chain := typeChain(t)
	var b strings.Builder
	if ns := chain[0].Namespace; ns != "" {
		b.WriteString(ns)
		b.WriteByte('.')
	}
	for i, level := range chain {
		if i > 0 {
			b.WriteString(NestedSeparator)
		}
		b.WriteString(level.Name)
		if n := level.Arity(); n > 0 {
			b.WriteString(ArityMarker)
			b.WriteString(strconv.Itoa(n))
		}
	}
	return SanitizeFileName(b.String()), nil
}

// LinkTarget returns the display text and page name of t.
func LinkTarget(t *surface.Type) (Link, error) {
	page, err := PageName(t)
	if err != nil {
		return Link{}, err
	}
	return Link{Text: TypeDisplayName(t), Page: page}, nil
}

// TypeDisplayName renders a declared type the way its language shows it:
// "Bag<T>", "Outer<T>.Inner".
func TypeDisplayName(t *surface.Type) string {
	chain := typeChain(t)
	parts := make([]string, len(chain))
	for i, level := range chain {
		parts[i] = level.Name
		if len(level.GenericParams) > 0 {
			parts[i] += "<" + strings.Join(level.GenericParams, ", ") + ">"
		}
	}
	return strings.Join(parts, ".")
}

// TypeFullDisplayName is TypeDisplayName qualified with the namespace.
func TypeFullDisplayName(t *surface.Type) string {
	if ns := t.TopLevelNamespace(); ns != "" {
		return ns + "." + TypeDisplayName(t)
	}
	return TypeDisplayName(t)
}

// DisplayName renders a type reference: keyword aliases for primitives,
// angle brackets for generic arguments, "[]" for arrays.
func DisplayName(ref *surface.TypeRef) string {
	switch {
	case ref == nil:
		return "void"
	case ref.Param != nil:
		if ref.Param.Name != "" {
			return ref.Param.Name
		}
		if ref.Param.Method {
			return "TM" + strconv.Itoa(ref.Param.Position)
		}
		return "T" + strconv.Itoa(ref.Param.Position)
	case ref.Elem != nil:
		s := DisplayName(ref.Elem)
		switch {
		case ref.Array == 1:
			s += "[]"
		case ref.Array > 1:
			s += "[" + strings.Repeat(",", ref.Array-1) + "]"
		}
		if ref.Pointer {
			s += "*"
		}
		return s
	}

	if ref.Namespace == "System" && ref.Declaring == nil && len(ref.Args) == 0 {
		if alias, ok := keywordAliases[ref.Name]; ok {
			return alias
		}
	}
	if ref.Namespace == "System" && ref.Name == "Nullable" && len(ref.Args) == 1 {
		return DisplayName(ref.Args[0]) + "?"
	}

	chain := refChain(ref)
	args := ref.Args
	parts := make([]string, len(chain))
	for i, level := range chain {
		parts[i] = level.Name
		if level.Arity == 0 {
			continue
		}
		if len(args) >= level.Arity && len(ref.Args) > 0 {
			names := make([]string, level.Arity)
			for j, a := range args[:level.Arity] {
				names[j] = DisplayName(a)
			}
			parts[i] += "<" + strings.Join(names, ", ") + ">"
			args = args[level.Arity:]
			continue
		}
		parts[i] += "<" + strings.Repeat(",", level.Arity-1) + ">"
	}
	return strings.Join(parts, ".")
}

// ExampleName derives the example-file base name for a signature:
// "M:Acme.Widget.Do(System.Int32)" becomes "M_Acme.Widget.Do(System.Int32)".
func ExampleName(signature string) string {
	return SanitizeFileName(signature)
}

// SanitizeFileName replaces characters that are illegal in file names on
// common filesystems with "_" and normalizes to NFC.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
}
