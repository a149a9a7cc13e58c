package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xmldocmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, CurrentVersion, cfg.Version)
	require.Equal(t, "index", cfg.Output.IndexPage)
	require.Equal(t, "csharp", cfg.Render.Language)
	require.Equal(t, 1, cfg.Render.Workers)
	require.Equal(t, int64(256<<10), cfg.Render.MaxExampleSize)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
	require.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	require.False(t, cfg.Links.GitHubPages)
	require.False(t, cfg.Links.Wiki)
	require.False(t, cfg.Links.DependencyLinks)
	require.False(t, cfg.Output.Metadata)
	require.False(t, cfg.Render.BackButton)
	require.False(t, cfg.Render.IncludeNonPublic)
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	path := writeConfig(t, `version: "1"
input:
  surface: build/Acme.Widgets.surface.yaml
  comments: build/Acme.Widgets.xml
  examples: examples
output:
  dir: docs/api
  index_page: README.md
  metadata: true
links:
  github_pages: true
  dependency_links: true
  dependencies:
    - module: Acme.Core
      path: ../core/docs
      base: https://example.com/core
render:
  back_button: true
  workers: 4
logging:
  level: DEBUG
watch:
  debounce: 2s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	dir := filepath.Dir(path)
	require.Equal(t, filepath.Join(dir, "build/Acme.Widgets.surface.yaml"), cfg.Input.Surface)
	require.Equal(t, filepath.Join(dir, "examples"), cfg.Input.Examples)
	require.Equal(t, filepath.Join(dir, "docs/api"), cfg.Output.Dir)
	require.Equal(t, filepath.Join(dir, "../core/docs"), cfg.Links.Dependencies[0].Path)
	require.Equal(t, "https://example.com/core", cfg.Links.Dependencies[0].Base)
	require.Equal(t, "README", cfg.Output.IndexPage)
	require.True(t, cfg.Output.Metadata)
	require.True(t, cfg.Links.GitHubPages)
	require.Equal(t, 4, cfg.Render.Workers)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	require.Empty(t, cfg.Catalog.Path)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("XMLDOCMD_TEST_OUT", "/tmp/out")
	cfg, err := Parse([]byte("input:\n  surface: s.yaml\n  comments: c.xml\noutput:\n  dir: ${XMLDOCMD_TEST_OUT}\n"))
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", cfg.Output.Dir)
	require.NoError(t, cfg.Validate())
}

func TestLoad_LinkBasesDefaultToLocationAsWritten(t *testing.T) {
	path := writeConfig(t, `input:
  surface: Acme.Tools.json
  comments: Acme.Tools.xml
output:
  dir: docs/tools
links:
  dependency_links: true
  dependencies:
    - module: Acme.Core
      path: ../core
catalog:
  path: catalog.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	dir := filepath.Dir(path)
	require.Equal(t, filepath.Join(dir, "../core"), cfg.Links.Dependencies[0].Path)
	require.Equal(t, "../core", cfg.Links.Dependencies[0].Base)
	require.Equal(t, "docs/tools", cfg.Catalog.Base)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("version: \"2\"\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = Parse([]byte("input: [unterminated\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Render.Workers = 100
	cfg.Logging.Format = "xml"
	cfg.Output.IndexPage = "api/index"
	cfg.Links.Dependencies = []DependencyConfig{{Module: "Acme.Core"}}

	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	msg := err.Error()
	for _, want := range []string{
		"input.surface: is required",
		"input.comments: is required",
		"output.dir: is required",
		"output.index_page: must not contain path separators",
		"render.workers: must be at most 64",
		"logging.format: must be one of text json",
		"links.dependencies[0].path: is required",
	} {
		require.True(t, strings.Contains(msg, want), "missing %q in %s", want, msg)
	}
}

func TestValidate_DuplicateDependency(t *testing.T) {
	cfg := Default()
	cfg.Input.Surface, cfg.Input.Comments, cfg.Output.Dir = "s.yaml", "c.xml", "out"
	cfg.Links.Dependencies = []DependencyConfig{
		{Module: "Acme.Core", Path: "a"},
		{Module: "Acme.Core", Path: "b"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Input.Surface, cfg.Input.Comments, cfg.Output.Dir = "s.yaml", "c.xml", "out"
	data, err := Marshal(cfg)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("XMLDOCMD_TEST_A=from-file\nXMLDOCMD_TEST_B=\"quoted\"\n"), 0o600))
	t.Setenv("XMLDOCMD_TEST_A", "from-env")
	t.Setenv("XMLDOCMD_TEST_B", "")
	require.NoError(t, os.Unsetenv("XMLDOCMD_TEST_B"))

	loaded, err := LoadEnvFiles(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	require.Equal(t, []string{envFile}, loaded)
	require.Equal(t, "from-env", os.Getenv("XMLDOCMD_TEST_A"))
	require.Equal(t, "quoted", os.Getenv("XMLDOCMD_TEST_B"))
}
