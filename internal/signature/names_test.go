package signature

import (
	"testing"

	"git.home.luguber.info/inful/xmldocmd/internal/surface"
	"github.com/stretchr/testify/require"
)

func TestPageName(t *testing.T) {
	widget := newType("Acme", "Widget")
	bag := newType("Acme", "Bag", "T")
	plainBag := newType("Acme", "Bag")
	outer := newType("Acme", "Outer")
	inner := nested(outer, "Inner")
	sibling := newType("Acme.Outer", "Inner")

	tests := []struct {
		name string
		typ  *surface.Type
		want string
	}{
		{"plain", widget, "Acme.Widget"},
		{"generic gets arity", bag, "Acme.Bag-1"},
		{"non-generic overload", plainBag, "Acme.Bag"},
		{"nested", inner, "Acme.Outer+Inner"},
		{"top-level type in namespace named like the outer type", sibling, "Acme.Outer.Inner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageName(tt.typ)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := PageName(nil)
	require.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	require.Equal(t, "M_Acme.Widget.Do(System.Int32)", ExampleName("M:Acme.Widget.Do(System.Int32)"))
	require.Equal(t, "a_b_c_d_e_f_g_h_i_j", SanitizeFileName("a<b>c:d\"e/f\\g|h?i*j"))
	require.Equal(t, "tab_", SanitizeFileName("tab\t"))
	// U+0065 U+0301 composes to U+00E9.
	require.Equal(t, "caf\u00e9", SanitizeFileName("cafe\u0301"))
}

func TestLinkTarget(t *testing.T) {
	outer := newType("Acme", "Outer", "T")
	inner := nested(outer, "Inner")

	link, err := LinkTarget(inner)
	require.NoError(t, err)
	require.Equal(t, "Outer<T>.Inner", link.Text)
	require.Equal(t, "Acme.Outer-1+Inner", link.Page)
	require.Equal(t, "Acme.Outer<T>.Inner", TypeFullDisplayName(inner))
}

func TestDisplayName(t *testing.T) {
	list := &surface.TypeRef{Namespace: "System.Collections.Generic", Name: "List", Arity: 1, Args: []*surface.TypeRef{sys("String")}}
	tests := []struct {
		name string
		ref  *surface.TypeRef
		want string
	}{
		{"void", nil, "void"},
		{"keyword alias", sys("Int32"), "int"},
		{"non-aliased system type", sys("DateTime"), "DateTime"},
		{"generic instantiation", list, "List<string>"},
		{"open generic", &surface.TypeRef{Namespace: "System", Name: "Func", Arity: 2}, "Func<,>"},
		{"nullable", &surface.TypeRef{Namespace: "System", Name: "Nullable", Arity: 1, Args: []*surface.TypeRef{sys("Int32")}}, "int?"},
		{"array", &surface.TypeRef{Elem: sys("String"), Array: 1}, "string[]"},
		{"multi-dimensional array", &surface.TypeRef{Elem: sys("Int32"), Array: 2}, "int[,]"},
		{"by-ref shows element", &surface.TypeRef{Elem: sys("Int32"), ByRef: true}, "int"},
		{"pointer", &surface.TypeRef{Elem: sys("Byte"), Pointer: true}, "byte*"},
		{"generic parameter", &surface.TypeRef{Param: &surface.GenericParam{Name: "TKey"}}, "TKey"},
		{"unnamed method generic parameter", &surface.TypeRef{Param: &surface.GenericParam{Position: 1, Method: true}}, "TM1"},
		{"nested", &surface.TypeRef{Name: "Mode", Declaring: &surface.TypeRef{Namespace: "Acme", Name: "Widget"}}, "Widget.Mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DisplayName(tt.ref))
		})
	}
}
