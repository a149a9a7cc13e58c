package examples

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "M_Acme.Widget.Do(System.Int32).cs"), "widget.Do(3);\r\n")
	writeFile(t, filepath.Join(dir, "nested", "T_Acme.Widget.md"), "Some notes")
	writeFile(t, filepath.Join(dir, "usage.json"), `{"a":1}`)

	d, err := LoadDir(dir, 0)
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())
	require.Equal(t, []string{"M_Acme.Widget.Do(System.Int32)", "T_Acme.Widget", "usage"}, d.Names())

	s, ok := d.Lookup("M_Acme.Widget.Do(System.Int32)")
	require.True(t, ok)
	require.Equal(t, "csharp", s.Language)
	require.Equal(t, "widget.Do(3);\n", s.Code)

	s, ok = d.Lookup("T_Acme.Widget")
	require.True(t, ok)
	require.Empty(t, s.Language)

	_, ok = d.Lookup("missing")
	require.False(t, ok)
}

func TestLoadDir_DuplicatesAndSizeLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "Sample.cs"), "first")
	writeFile(t, filepath.Join(dir, "b", "Sample.vb"), "second")
	writeFile(t, filepath.Join(dir, "Big.cs"), strings.Repeat("x", 64))

	d, err := LoadDir(dir, 32)
	require.NoError(t, err)

	s, ok := d.Lookup("Sample")
	require.True(t, ok)
	require.Equal(t, "first", s.Code)

	_, ok = d.Lookup("Big")
	require.False(t, ok, "files over the size limit are skipped")
}

func TestLoadDir_Errors(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"), 0)
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.cs")
	writeFile(t, file, "x")
	_, err = LoadDir(file, 0)
	require.Error(t, err)
}

func TestNilDir(t *testing.T) {
	var d *Dir
	_, ok := d.Lookup("x")
	require.False(t, ok)
	require.Zero(t, d.Len())
	require.Nil(t, d.Names())
}

func TestLanguageFor(t *testing.T) {
	require.Equal(t, "csharp", LanguageFor("x.CS"))
	require.Equal(t, "fsharp", LanguageFor("x.fsx"))
	require.Empty(t, LanguageFor("x.unknown"))
}
