package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/catalog"
	"git.home.luguber.info/inful/xmldocmd/internal/comments"
	"git.home.luguber.info/inful/xmldocmd/internal/config"
	"git.home.luguber.info/inful/xmldocmd/internal/examples"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/generate"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
	"git.home.luguber.info/inful/xmldocmd/internal/metrics"
	"git.home.luguber.info/inful/xmldocmd/internal/render"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
)

// InputFlags name the inputs and the output directory. Positional arguments
// and flags override the configuration file.
type InputFlags struct {
	Surface  string `arg:"" optional:"" help:"Type surface manifest (.json, .yaml, .yml)" type:"path"`
	Comments string `arg:"" optional:"" help:"XML documentation-comment file" type:"path"`
	Out      string `arg:"" optional:"" help:"Output directory" type:"path"`
	Examples string `name:"examples-path" help:"Directory of code examples to insert in the documentation" type:"path"`
}

// OutputFlags enable optional output features. Boolean flags can only turn a
// feature on; the configuration file may already have enabled it.
type OutputFlags struct {
	IndexPage        string   `name:"index-page-name" help:"Name of the index page (default: index)"`
	GitHubPages      bool     `name:"github-pages" help:"Remove the .md extension from links for GitHub Pages"`
	Wiki             bool     `name:"gitlab-wiki" aliases:"wiki" help:"Remove the .md extension and ./ prefix from links for wikis"`
	BackButton       bool     `name:"back-button" help:"Add a back button on each page"`
	IncludeNonPublic bool     `name:"private-members" help:"Write documentation for non-public members"`
	Metadata         bool     `name:"generate-metadata" help:"Write a .meta.json sidecar for each page"`
	DependencyLinks  bool     `name:"dependency-links" help:"Link to symbols of referenced modules"`
	Dependencies     []string `name:"dependency" placeholder:"MODULE=DIR[@BASE]" help:"Documentation of a referenced module: its sidecar directory and link base"`
	FrontMatter      bool     `name:"front-matter" help:"Prepend YAML front matter with uid and fingerprint"`
	VerifyLinks      bool     `name:"verify-links" help:"Check relative links after writing"`
	Workers          int      `name:"workers" help:"Number of pages rendered in parallel"`
	CatalogPath      string   `name:"catalog" help:"SQLite symbol catalog to register in and resolve from" type:"path"`
	CatalogBase      string   `name:"catalog-base" help:"Link base recorded for this module in the catalog"`
	MetricsFile      string   `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each run" type:"path"`
}

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	InputFlags  `embed:""`
	OutputFlags `embed:""`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := resolveConfig(g, root, &c.InputFlags, &c.OutputFlags)
	if err != nil {
		return err
	}
	_, err = runGeneration(g.Ctx, cfg, g.Stdout)
	return err
}

// resolveConfig loads the configuration, applies flag overrides and
// validates the result.
func resolveConfig(g *Global, root *CLI, in *InputFlags, out *OutputFlags) (*config.Config, error) {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, in, out); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, in *InputFlags, out *OutputFlags) error {
	setString(&cfg.Input.Surface, in.Surface)
	setString(&cfg.Input.Comments, in.Comments)
	setString(&cfg.Output.Dir, in.Out)
	setString(&cfg.Input.Examples, in.Examples)

	setString(&cfg.Output.IndexPage, out.IndexPage)
	cfg.Links.GitHubPages = cfg.Links.GitHubPages || out.GitHubPages
	cfg.Links.Wiki = cfg.Links.Wiki || out.Wiki
	cfg.Render.BackButton = cfg.Render.BackButton || out.BackButton
	cfg.Render.IncludeNonPublic = cfg.Render.IncludeNonPublic || out.IncludeNonPublic
	cfg.Output.Metadata = cfg.Output.Metadata || out.Metadata
	cfg.Links.DependencyLinks = cfg.Links.DependencyLinks || out.DependencyLinks
	cfg.Output.FrontMatter = cfg.Output.FrontMatter || out.FrontMatter
	cfg.Output.VerifyLinks = cfg.Output.VerifyLinks || out.VerifyLinks
	if out.Workers > 0 {
		cfg.Render.Workers = out.Workers
	}
	setString(&cfg.Catalog.Path, out.CatalogPath)
	setString(&cfg.Catalog.Base, out.CatalogBase)
	if cfg.Catalog.Path != "" && cfg.Catalog.Base == "" {
		cfg.Catalog.Base = cfg.Output.Dir
	}
	setString(&cfg.Metrics.Textfile, out.MetricsFile)

	for _, spec := range out.Dependencies {
		dep, err := parseDependency(spec)
		if err != nil {
			return err
		}
		cfg.Links.Dependencies = append(cfg.Links.Dependencies, dep)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseDependency reads MODULE=DIR[@BASE]. Without a base the directory is
// also used as link base.
func parseDependency(spec string) (config.DependencyConfig, error) {
	module, rest, ok := strings.Cut(spec, "=")
	if !ok || module == "" || rest == "" {
		return config.DependencyConfig{}, errors.ValidationError("dependency must be MODULE=DIR[@BASE]").
			WithContext("value", spec).
			Build()
	}
	dir, base, _ := strings.Cut(rest, "@")
	if base == "" {
		base = dir
	}
	return config.DependencyConfig{Module: module, Path: dir, Base: base}, nil
}

// runGeneration performs one complete run and prints its summary.
func runGeneration(ctx context.Context, cfg *config.Config, stdout io.Writer) (*generate.Result, error) {
	mod, err := surface.Load(cfg.Input.Surface)
	if err != nil {
		return nil, err
	}
	store, err := comments.Load(cfg.Input.Comments)
	if err != nil {
		return nil, err
	}
	if asm := store.Assembly(); asm != "" && asm != mod.Name {
		slog.Warn("Comment file documents a different module",
			logfields.Module(mod.Name),
			slog.String("assembly", asm))
	}

	var ex *examples.Dir
	if cfg.Input.Examples != "" {
		if ex, err = examples.LoadDir(cfg.Input.Examples, cfg.Render.MaxExampleSize); err != nil {
			return nil, err
		}
	}

	var deps catalog.Multi
	for _, d := range cfg.Links.Dependencies {
		dc, err := catalog.NewDirCatalog(d.Module, d.Path, d.Base)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dc)
	}

	opts := generate.Options{
		OutputDir: cfg.Output.Dir,
		IndexPage: cfg.Output.IndexPage,
		Render: render.Options{
			BackButton:       cfg.Render.BackButton,
			IncludeNonPublic: cfg.Render.IncludeNonPublic,
			Language:         cfg.Render.Language,
		},
		Links: links.Options{
			GitHubPages:     cfg.Links.GitHubPages,
			Wiki:            cfg.Links.Wiki,
			DependencyLinks: cfg.Links.DependencyLinks,
		},
		Metadata:    cfg.Output.Metadata,
		FrontMatter: cfg.Output.FrontMatter,
		VerifyLinks: cfg.Output.VerifyLinks,
		Workers:     cfg.Render.Workers,
	}

	if cfg.Catalog.Path != "" {
		cat, err := catalog.OpenSQLite(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = cat.Close() }()
		deps = append(deps, cat.Excluding(mod.Name))
		opts.Catalog = cat
		opts.CatalogBase = cfg.Catalog.Base
	}
	if len(deps) > 0 {
		opts.Deps = deps
	}

	var prom *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		opts.Recorder = prom
	}

	res, runErr := generate.New(mod, store, ex, opts).Run(ctx)
	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return res, runErr
	}

	_, _ = fmt.Fprintf(stdout, "Generation: %d succeeded, %d failed\n", res.Succeeded, res.Failed)
	if res.Links != nil {
		printLinkReport(stdout, res.Links)
		if !res.Links.OK() {
			return res, brokenLinksError(len(res.Links.Broken))
		}
	}
	if res.Outcome() == generate.OutcomeFailed {
		return res, errors.RenderError("no type could be documented").
			WithContext("failed", res.Failed).
			Build()
	}
	return res, nil
}
