package main

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
	"git.home.luguber.info/inful/xmldocmd/internal/watch"
)

// WatchCmd implements the 'watch' command: one generation, then a full
// regeneration after every settled change of the inputs.
type WatchCmd struct {
	InputFlags  `embed:""`
	OutputFlags `embed:""`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := resolveConfig(g, root, &c.InputFlags, &c.OutputFlags)
	if err != nil {
		return err
	}

	// The configuration is read again on every run so edits to it apply.
	regenerate := func(ctx context.Context) error {
		current, err := resolveConfig(g, root, &c.InputFlags, &c.OutputFlags)
		if err != nil {
			return err
		}
		_, err = runGeneration(ctx, current, g.Stdout)
		return err
	}
	if _, err := runGeneration(g.Ctx, cfg, g.Stdout); err != nil {
		slog.Error("Initial generation failed", logfields.Error(err))
	}

	paths := []string{cfg.Input.Surface, cfg.Input.Comments, cfg.Input.Examples}
	if root.Config != "" {
		paths = append(paths, root.Config)
	}
	w, err := watch.New(paths, cfg.Watch.Debounce, regenerate)
	if err != nil {
		return err
	}
	slog.Info("Watching inputs", logfields.Count(len(paths)), logfields.Path(cfg.Output.Dir))
	return w.Run(g.Ctx)
}
