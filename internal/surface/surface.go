// Package surface describes the public type surface of a compiled module as
// seen by the documentation generator.
//
// The data is produced by an external introspection step (a reflection dump of
// the module) and loaded from a JSON or YAML manifest. Nothing in this package
// interprets documentation comments; it only carries declared characteristics:
// visibility, generic arity, parameter lists and member kinds.
package surface

import "strings"

// TypeKind classifies a declared type.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindStruct    TypeKind = "struct"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindDelegate  TypeKind = "delegate"
)

// MemberKind classifies a type member.
type MemberKind string

const (
	MemberConstructor MemberKind = "constructor"
	MemberProperty    MemberKind = "property"
	MemberMethod      MemberKind = "method"
	MemberField       MemberKind = "field"
	MemberEvent       MemberKind = "event"
)

// Visibility is the declared accessibility of a type or member.
type Visibility string

const (
	Public            Visibility = "public"
	Protected         Visibility = "protected"
	Internal          Visibility = "internal"
	ProtectedInternal Visibility = "protected internal"
	PrivateProtected  Visibility = "private protected"
	Private           Visibility = "private"
)

// Module is a loaded binary module.
type Module struct {
	Name       string   `json:"name" yaml:"name"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
	Types      []*Type  `json:"types" yaml:"types"`
}

// GenericParam references a generic type parameter by position. Method marks
// parameters declared on a generic method rather than on the enclosing type.
type GenericParam struct {
	Name     string `json:"name" yaml:"name"`
	Position int    `json:"position" yaml:"position"`
	Method   bool   `json:"method,omitempty" yaml:"method,omitempty"`
}

// TypeRef references a type from a signature (parameter, return value, base type).
//
// Exactly one of three shapes is used: a named type (Name set), a generic
// parameter (Param set) or a constructed element type (Elem set together with
// Array, ByRef or Pointer).
type TypeRef struct {
	Module    string        `json:"module,omitempty" yaml:"module,omitempty"`
	Namespace string        `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Arity     int           `json:"arity,omitempty" yaml:"arity,omitempty"`
	Declaring *TypeRef      `json:"declaring,omitempty" yaml:"declaring,omitempty"`
	Args      []*TypeRef    `json:"args,omitempty" yaml:"args,omitempty"`
	Param     *GenericParam `json:"param,omitempty" yaml:"param,omitempty"`
	Elem      *TypeRef      `json:"elem,omitempty" yaml:"elem,omitempty"`
	Array     int           `json:"array,omitempty" yaml:"array,omitempty"`
	ByRef     bool          `json:"byref,omitempty" yaml:"byref,omitempty"`
	Pointer   bool          `json:"pointer,omitempty" yaml:"pointer,omitempty"`
}

// Definition returns the reference with generic arguments and constructed
// shapes stripped, i.e. the type a page would be written for.
func (r *TypeRef) Definition() *TypeRef {
	if r == nil {
		return nil
	}
	if r.Elem != nil {
		return r.Elem.Definition()
	}
	if r.Param != nil {
		return nil
	}
	return &TypeRef{
		Module:    r.Module,
		Namespace: r.Namespace,
		Name:      r.Name,
		Arity:     r.Arity,
		Declaring: r.Declaring.Definition(),
	}
}

// Parameter is one declared parameter of a method, constructor or indexer.
type Parameter struct {
	Name     string   `json:"name" yaml:"name"`
	Type     *TypeRef `json:"type" yaml:"type"`
	Modifier string   `json:"modifier,omitempty" yaml:"modifier,omitempty"` // ref, out, in, params, this
	Default  string   `json:"default,omitempty" yaml:"default,omitempty"`
}

// Member is the normalized descriptor of one introspected member.
type Member struct {
	Kind          MemberKind   `json:"kind" yaml:"kind"`
	Name          string       `json:"name" yaml:"name"`
	Visibility    Visibility   `json:"visibility" yaml:"visibility"`
	Static        bool         `json:"static,omitempty" yaml:"static,omitempty"`
	Modifiers     []string     `json:"modifiers,omitempty" yaml:"modifiers,omitempty"` // abstract, virtual, override, readonly, const, ...
	Parameters    []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Returns       *TypeRef     `json:"returns,omitempty" yaml:"returns,omitempty"` // nil means void
	GenericParams []string     `json:"generic_params,omitempty" yaml:"generic_params,omitempty"`
	CanRead       bool         `json:"can_read,omitempty" yaml:"can_read,omitempty"`
	CanWrite      bool         `json:"can_write,omitempty" yaml:"can_write,omitempty"`
	Value         string       `json:"value,omitempty" yaml:"value,omitempty"` // constant or enum value

	// Declaring is set by the loader; it is not part of the manifest.
	Declaring *Type `json:"-" yaml:"-"`
}

// IsPublic reports whether the member is declared public.
func (m *Member) IsPublic() bool { return m.Visibility == Public }

// IsIndexer reports whether the member is a property taking parameters.
func (m *Member) IsIndexer() bool {
	return m.Kind == MemberProperty && len(m.Parameters) > 0
}

// IsOperator reports whether the member is a user-defined operator.
func (m *Member) IsOperator() bool {
	return m.Kind == MemberMethod && m.Static && strings.HasPrefix(m.Name, "op_")
}

// Type is one declared type of the module.
type Type struct {
	Kind          TypeKind   `json:"kind" yaml:"kind"`
	Namespace     string     `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name          string     `json:"name" yaml:"name"`
	Visibility    Visibility `json:"visibility" yaml:"visibility"`
	Modifiers     []string   `json:"modifiers,omitempty" yaml:"modifiers,omitempty"` // static, abstract, sealed, readonly
	GenericParams []string   `json:"generic_params,omitempty" yaml:"generic_params,omitempty"`
	Base          *TypeRef   `json:"base,omitempty" yaml:"base,omitempty"`
	Interfaces    []*TypeRef `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Members       []*Member  `json:"members,omitempty" yaml:"members,omitempty"`
	Nested        []*Type    `json:"nested,omitempty" yaml:"nested,omitempty"`

	// Set by the loader.
	Module    string `json:"-" yaml:"-"`
	Declaring *Type  `json:"-" yaml:"-"`
}

// Arity is the number of generic parameters the type declares itself.
func (t *Type) Arity() int { return len(t.GenericParams) }

// IsPublic reports whether the type is declared public.
func (t *Type) IsPublic() bool { return t.Visibility == Public }

// IsDelegate reports whether the type is a delegate.
func (t *Type) IsDelegate() bool { return t.Kind == KindDelegate }

// HasModifier reports whether the type carries modifier (e.g. "static").
func (t *Type) HasModifier(modifier string) bool {
	for _, m := range t.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

// Ref returns a reference to the type's definition.
func (t *Type) Ref() *TypeRef {
	ref := &TypeRef{
		Module:    t.Module,
		Namespace: t.Namespace,
		Name:      t.Name,
		Arity:     t.Arity(),
	}
	if t.Declaring != nil {
		ref.Declaring = t.Declaring.Ref()
		ref.Namespace = ""
	}
	return ref
}

// TopLevelNamespace returns the namespace of the outermost declaring type.
func (t *Type) TopLevelNamespace() string {
	for t.Declaring != nil {
		t = t.Declaring
	}
	return t.Namespace
}

// AllTypes returns every type of the module, nested types included, in
// manifest order.
func (m *Module) AllTypes() []*Type {
	var out []*Type
	var walk func(types []*Type)
	walk = func(types []*Type) {
		for _, t := range types {
			out = append(out, t)
			walk(t.Nested)
		}
	}
	walk(m.Types)
	return out
}
