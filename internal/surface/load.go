package surface

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// Format selects the manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the manifest format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a module manifest from disk.
func Load(path string) (*Module, error) {
	// #nosec G304 -- path is provided by the CLI user.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySurface, "failed to read type surface manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	mod, err := Decode(bytes.NewReader(data), FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mod, nil
}

// Decode reads a module manifest and links it: declaring types are set on
// members and nested types, and references to the module's own types get the
// module name filled in.
func Decode(r io.Reader, format Format) (*Module, error) {
	var mod Module
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&mod)
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&mod)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySurface, "failed to decode type surface manifest").
			Fatal().
			WithContext("format", string(format)).
			Build()
	}
	if err := link(&mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

func link(mod *Module) error {
	if strings.TrimSpace(mod.Name) == "" {
		return errors.ValidationError("type surface manifest has no module name").Build()
	}

	var walk func(types []*Type, declaring *Type) error
	walk = func(types []*Type, declaring *Type) error {
		for i, t := range types {
			if t == nil || strings.TrimSpace(t.Name) == "" {
				return errors.ValidationError("type without a name").
					WithContext("index", i).
					Build()
			}
			t.Module = mod.Name
			t.Declaring = declaring
			if t.Visibility == "" {
				t.Visibility = Public
			}
			if t.Kind == "" {
				t.Kind = KindClass
			}
			for _, m := range t.Members {
				if m == nil {
					continue
				}
				m.Declaring = t
				if m.Visibility == "" {
					m.Visibility = Public
				}
			}
			if err := walk(t.Nested, t); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(mod.Types, nil); err != nil {
		return err
	}

	own := make(map[string]bool)
	for _, t := range mod.AllTypes() {
		own[t.Ref().identity()] = true
	}
	fill := func(ref *TypeRef) {
		ref.walk(func(r *TypeRef) {
			if r.Module == "" && r.Name != "" && own[r.identity()] {
				r.Module = mod.Name
			}
		})
	}
	for _, t := range mod.AllTypes() {
		fill(t.Base)
		for _, i := range t.Interfaces {
			fill(i)
		}
		for _, m := range t.Members {
			if m == nil {
				continue
			}
			fill(m.Returns)
			for _, p := range m.Parameters {
				if p != nil {
					fill(p.Type)
				}
			}
		}
	}
	return nil
}

// identity is the module-independent name of a definition, used only for
// linking manifest references to declared types.
func (r *TypeRef) identity() string {
	var b strings.Builder
	if r.Declaring != nil {
		b.WriteString(r.Declaring.identity())
		b.WriteByte('+')
	} else if r.Namespace != "" {
		b.WriteString(r.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(r.Name)
	if r.Arity > 0 {
		b.WriteByte('`')
		b.WriteString(strconv.Itoa(r.Arity))
	}
	return b.String()
}

// walk visits r and every reference reachable from it.
func (r *TypeRef) walk(fn func(*TypeRef)) {
	if r == nil {
		return
	}
	fn(r)
	r.Declaring.walk(fn)
	r.Elem.walk(fn)
	for _, a := range r.Args {
		a.walk(fn)
	}
}
