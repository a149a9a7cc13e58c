package main

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/xmldocmd/internal/config"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force    bool   `help:"Overwrite existing configuration file"`
	Surface  string `help:"Type surface manifest to record as input" default:"Module.json"`
	Comments string `help:"Documentation comment file to record as input" default:"Module.xml"`
	Out      string `help:"Output directory to record" default:"docs"`
}

func (c *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = DefaultConfigFile
	}
	_, _ = fmt.Fprintf(g.Stdout, "Writing configuration to %s\n", path)
	return writeInitialConfig(path, c.Surface, c.Comments, c.Out, c.Force)
}

func writeInitialConfig(path, surface, comments, out string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	cfg := config.Default()
	cfg.Input.Surface = surface
	cfg.Input.Comments = comments
	cfg.Output.Dir = out
	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.InternalError("failed to encode configuration").WithCause(err).Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create configuration directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}
