package render

import (
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/signature"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// operatorTokens maps operator method names to their source tokens.
var operatorTokens = map[string]string{
	"op_Addition":           "+",
	"op_Subtraction":        "-",
	"op_Multiply":           "*",
	"op_Division":           "/",
	"op_Modulus":            "%",
	"op_BitwiseAnd":         "&",
	"op_BitwiseOr":          "|",
	"op_ExclusiveOr":        "^",
	"op_LeftShift":          "<<",
	"op_RightShift":         ">>",
	"op_UnsignedRightShift": ">>>",
	"op_Equality":           "==",
	"op_Inequality":         "!=",
	"op_LessThan":           "<",
	"op_GreaterThan":        ">",
	"op_LessThanOrEqual":    "<=",
	"op_GreaterThanOrEqual": ">=",
	"op_UnaryNegation":      "-",
	"op_UnaryPlus":          "+",
	"op_LogicalNot":         "!",
	"op_OnesComplement":     "~",
	"op_Increment":          "++",
	"op_Decrement":          "--",
	"op_True":               "true",
	"op_False":              "false",
}

// implicitBases are base types left out of type declarations.
var implicitBases = map[string]bool{
	"System.Object":    true,
	"System.ValueType": true,
	"System.Enum":      true,
}

func isConversion(m *surface.Member) bool {
	return m.Kind == surface.MemberMethod && (m.Name == "op_Implicit" || m.Name == "op_Explicit")
}

// operatorName returns "operator +" or "implicit operator decimal" for
// operator methods and "" otherwise.
func operatorName(m *surface.Member) string {
	if !m.IsOperator() {
		return ""
	}
	if isConversion(m) {
		kw := "implicit"
		if m.Name == "op_Explicit" {
			kw = "explicit"
		}
		return kw + " operator " + signature.DisplayName(m.Returns)
	}
	if tok, ok := operatorTokens[m.Name]; ok {
		return "operator " + tok
	}
	return ""
}

// constructorName is the declaring type's name without generic parameters.
func constructorName(m *surface.Member) string {
	return m.Declaring.Name
}

// paramTypes lists parameter types for headings: "ref int, string".
func paramTypes(params []*surface.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = modifierPrefix(p) + signature.DisplayName(p.Type)
	}
	return strings.Join(parts, ", ")
}

func modifierPrefix(p *surface.Parameter) string {
	mod := p.Modifier
	if mod == "" && p.Type != nil && p.Type.ByRef {
		mod = "ref"
	}
	if mod == "" {
		return ""
	}
	return mod + " "
}

func genericList(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

// memberHeading is the subsection title of a member, e.g. "Do(int)",
// "Convert<TOut>(List<TOut>)", "this[int]", "operator +(Money, Money)".
func memberHeading(m *surface.Member) string {
	switch m.Kind {
	case surface.MemberConstructor:
		return constructorName(m) + "(" + paramTypes(m.Parameters) + ")"
	case surface.MemberMethod:
		name := operatorName(m)
		if name == "" {
			name = m.Name + genericList(m.GenericParams)
		}
		return name + "(" + paramTypes(m.Parameters) + ")"
	case surface.MemberProperty:
		if m.IsIndexer() {
			return "this[" + paramTypes(m.Parameters) + "]"
		}
	}
	return m.Name
}

// declaration reconstructs the source declaration of a member.
func declaration(m *surface.Member) string {
	var b strings.Builder
	writeModifiers(&b, string(m.Visibility), m.Static, m.Modifiers)

	switch m.Kind {
	case surface.MemberConstructor:
		b.WriteString(constructorName(m))
		b.WriteString(parameterList(m.Parameters, "(", ")"))
	case surface.MemberMethod:
		if isConversion(m) {
			b.WriteString(operatorName(m))
		} else {
			b.WriteString(signature.DisplayName(m.Returns))
			b.WriteByte(' ')
			if op := operatorName(m); op != "" {
				b.WriteString(op)
			} else {
				b.WriteString(m.Name)
				b.WriteString(genericList(m.GenericParams))
			}
		}
		b.WriteString(parameterList(m.Parameters, "(", ")"))
	case surface.MemberProperty:
		b.WriteString(signature.DisplayName(m.Returns))
		b.WriteByte(' ')
		if m.IsIndexer() {
			b.WriteString("this")
			b.WriteString(parameterList(m.Parameters, "[", "]"))
		} else {
			b.WriteString(m.Name)
		}
		b.WriteString(accessors(m))
		return b.String()
	case surface.MemberField:
		if m.Declaring != nil && m.Declaring.Kind == surface.KindEnum {
			return enumField(m)
		}
		b.WriteString(signature.DisplayName(m.Returns))
		b.WriteByte(' ')
		b.WriteString(m.Name)
		if m.Value != "" {
			b.WriteString(" = ")
			b.WriteString(m.Value)
		}
	case surface.MemberEvent:
		b.WriteString("event ")
		b.WriteString(signature.DisplayName(m.Returns))
		b.WriteByte(' ')
		b.WriteString(m.Name)
	}
	b.WriteByte(';')
	return b.String()
}

func enumField(m *surface.Member) string {
	if m.Value == "" {
		return m.Name
	}
	return m.Name + " = " + m.Value
}

func accessors(m *surface.Member) string {
	switch {
	case m.CanRead && m.CanWrite:
		return " { get; set; }"
	case m.CanWrite:
		return " { set; }"
	default:
		return " { get; }"
	}
}

func parameterList(params []*surface.Parameter, open, close string) string {
	parts := make([]string, len(params))
	for i, p := range params {
		part := modifierPrefix(p) + signature.DisplayName(p.Type)
		if p.Name != "" {
			part += " " + p.Name
		}
		if p.Default != "" {
			part += " = " + p.Default
		}
		parts[i] = part
	}
	return open + strings.Join(parts, ", ") + close
}

func writeModifiers(b *strings.Builder, visibility string, static bool, modifiers []string) {
	if visibility != "" {
		b.WriteString(visibility)
		b.WriteByte(' ')
	}
	if static {
		b.WriteString("static ")
	}
	for _, mod := range modifiers {
		if mod == "static" {
			continue
		}
		b.WriteString(mod)
		b.WriteByte(' ')
	}
}

// typeDeclaration reconstructs the declaration line of a type.
func typeDeclaration(t *surface.Type) string {
	var b strings.Builder
	writeModifiers(&b, string(t.Visibility), t.HasModifier("static"), t.Modifiers)
	b.WriteString(string(t.Kind))
	b.WriteByte(' ')
	b.WriteString(t.Name)
	b.WriteString(genericList(t.GenericParams))

	var supers []string
	if t.Base != nil {
		if def := t.Base.Definition(); def == nil || !implicitBases[def.Namespace+"."+def.Name] {
			supers = append(supers, signature.DisplayName(t.Base))
		}
	}
	for _, iface := range t.Interfaces {
		supers = append(supers, signature.DisplayName(iface))
	}
	if len(supers) > 0 {
		b.WriteString(" : ")
		b.WriteString(strings.Join(supers, ", "))
	}
	return b.String()
}

// kindTitle is the word following a type's name in its page title.
func kindTitle(k surface.TypeKind) string {
	switch k {
	case surface.KindStruct:
		return "Struct"
	case surface.KindInterface:
		return "Interface"
	case surface.KindEnum:
		return "Enum"
	case surface.KindDelegate:
		return "Delegate"
	}
	return "Class"
}
