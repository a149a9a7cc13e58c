// Command xmldocmd turns a module's type surface and its XML documentation
// comments into cross-linked Markdown pages.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/xmldocmd/internal/config"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/version"
	"github.com/alecthomas/kong"
)

// DefaultConfigFile is loaded when present and no --config is given.
const DefaultConfigFile = "xmldocmd.yaml"

// Global carries state shared by every subcommand.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition and global flags.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (default: ${default_config} when present)" type:"path"`
	EnvFile  []string         `name:"env-file" help:"Load variables from .env files before reading the configuration" type:"path"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	LogJSON  bool             `name:"log-json" help:"Log as JSON instead of text"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`
	Generate GenerateCmd      `cmd:"" default:"withargs" help:"Generate Markdown pages for a module"`
	Watch    WatchCmd         `cmd:"" help:"Regenerate whenever the inputs change"`
	Verify   VerifyCmd        `cmd:"" help:"Check the relative links of a generated documentation set"`
	Catalog  CatalogCmd       `cmd:"" help:"Manage the SQLite symbol catalog used for dependency links"`
	Init     InitCmd          `cmd:"" help:"Write a configuration file with defaults"`
}

// AfterApply runs after flag parsing; it sets up logging once. Commands that
// load a configuration file may refine the level and format afterwards.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	format := config.DefaultLogFormat
	if c.LogJSON {
		format = "json"
	}
	setupLogging(g.Stderr, config.DefaultLogLevel, format, c.Verbose)
	return nil
}

// setupLogging installs the default slog logger. verbose forces debug.
func setupLogging(w io.Writer, level, format string, verbose bool) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the configuration named by --config, or the default file
// when it exists, or falls back to built-in defaults. Environment files are
// loaded first so the configuration can reference their variables.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	if _, err := config.LoadEnvFiles(c.EnvFile...); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").Build()
	}

	path := c.Config
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		slog.Debug("Loaded configuration", "path", path)
	}

	format := cfg.Logging.Format
	if c.LogJSON {
		format = "json"
	}
	setupLogging(g.Stderr, cfg.Logging.Level, format, c.Verbose)
	return cfg, nil
}

func newParser(cli *CLI, g *Global, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("xmldocmd"),
		kong.Description("Generate Markdown documentation from XML documentation comments."),
		kong.UsageOnError(),
		kong.Vars{
			"version":        version.String(),
			"default_config": DefaultConfigFile,
		},
		kong.Bind(g),
		kong.BindTo(g.Ctx, (*context.Context)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g := &Global{Ctx: ctx, Stdout: stdout, Stderr: stderr}
	cli := &CLI{}
	parser, err := newParser(cli, g, kong.Writers(stdout, stderr))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, nil).Report(stderr, errors.ValidationError(err.Error()).Build())
	}
	if err := kctx.Run(g, cli); err != nil {
		return errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(stderr, err)
	}
	return 0
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
