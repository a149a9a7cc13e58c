// Package examples reads example snippets from a directory.
//
// Every regular file directly or transitively under the directory is read
// once, up front; lookups never touch the filesystem. A snippet is keyed by
// its base name without extension, so "M_Acme.Widget.Do(System.Int32).cs"
// answers lookups for "M_Acme.Widget.Do(System.Int32)".
package examples

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
)

// DefaultMaxFileSize bounds the size of a single snippet file.
const DefaultMaxFileSize = 256 << 10

// Snippet is one example file.
type Snippet struct {
	Name     string
	Path     string
	Language string
	Code     string
}

// Dir is an in-memory set of snippets. A nil *Dir is empty.
type Dir struct {
	snippets map[string]Snippet
}

var languages = map[string]string{
	".cs":   "csharp",
	".csx":  "csharp",
	".vb":   "vb",
	".fs":   "fsharp",
	".fsx":  "fsharp",
	".xml":  "xml",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".sh":   "bash",
	".ps1":  "powershell",
	".sql":  "sql",
	".js":   "javascript",
	".ts":   "typescript",
	".go":   "go",
}

// LanguageFor returns the fence language tag for a file name, or "" when
// the extension is not known.
func LanguageFor(name string) string {
	return languages[strings.ToLower(filepath.Ext(name))]
}

// LoadDir reads every file under root. Files larger than maxSize (0 means
// DefaultMaxFileSize) are skipped with a warning; when two files share a
// base name the first in lexical path order wins.
func LoadDir(root string, maxSize int64) (*Dir, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.FileSystemError("examples directory not accessible").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ValidationError("examples path is not a directory").
			WithContext("path", root).
			Build()
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.FileSystemError("cannot list examples directory").
			WithCause(walkErr).
			WithContext("path", root).
			Build()
	}
	sort.Strings(paths)

	dir := &Dir{snippets: make(map[string]Snippet, len(paths))}
	for _, p := range paths {
		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if prev, dup := dir.snippets[name]; dup {
			slog.Warn("Duplicate example name; keeping first",
				logfields.Path(p),
				slog.String("kept", prev.Path))
			continue
		}
		fi, err := os.Stat(p)
		if err != nil {
			return nil, errors.FileSystemError("cannot stat example").WithCause(err).WithContext("path", p).Build()
		}
		if fi.Size() > maxSize {
			slog.Warn("Example file too large; skipped",
				logfields.Path(p),
				slog.Int64("size", fi.Size()),
				slog.Int64("max_size", maxSize))
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.FileSystemError("cannot read example").WithCause(err).WithContext("path", p).Build()
		}
		dir.snippets[name] = Snippet{
			Name:     name,
			Path:     p,
			Language: LanguageFor(base),
			Code:     strings.ReplaceAll(string(data), "\r\n", "\n"),
		}
	}
	slog.Debug("Loaded examples", logfields.Path(root), logfields.Count(len(dir.snippets)))
	return dir, nil
}

// Lookup returns the snippet named name.
func (d *Dir) Lookup(name string) (Snippet, bool) {
	if d == nil {
		return Snippet{}, false
	}
	s, ok := d.snippets[name]
	return s, ok
}

// Len returns the number of snippets.
func (d *Dir) Len() int {
	if d == nil {
		return 0
	}
	return len(d.snippets)
}

// Names returns the snippet names in sorted order.
func (d *Dir) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.snippets))
	for n := range d.snippets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
