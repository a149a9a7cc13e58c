package main

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/linkcheck"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Dir string `arg:"" help:"Directory of generated pages" type:"existingdir"`
}

func (c *VerifyCmd) Run(g *Global, root *CLI) error {
	if _, err := root.loadConfig(g); err != nil {
		return err
	}
	report, err := linkcheck.CheckDir(c.Dir)
	if err != nil {
		return err
	}
	printLinkReport(g.Stdout, report)
	if !report.OK() {
		return brokenLinksError(len(report.Broken))
	}
	return nil
}

func printLinkReport(w io.Writer, report *linkcheck.Report) {
	_, _ = fmt.Fprintf(w, "Links: %d pages, %d links checked, %d skipped, %d broken\n",
		report.Pages, report.Links, report.Skipped, len(report.Broken))
	for _, b := range report.Broken {
		_, _ = fmt.Fprintf(w, "  %s: %s (%s)\n", b.Page, b.Destination, b.Reason)
	}
	for _, page := range report.Modified {
		_, _ = fmt.Fprintf(w, "  %s: edited since generation\n", page)
	}
}

func brokenLinksError(n int) error {
	return errors.ValidationError("generated pages contain broken links").
		WithContext("broken", n).
		Build()
}
