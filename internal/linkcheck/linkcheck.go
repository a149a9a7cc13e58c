// Package linkcheck verifies the relative links of a generated output
// directory: every page a link names must exist and every anchor must match
// a heading of the target page.
package linkcheck

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/frontmatter"
	"git.home.luguber.info/inful/xmldocmd/internal/markdown"
)

// Reason classifies a broken link.
type Reason string

const (
	ReasonMissingPage   Reason = "missing_page"
	ReasonMissingAnchor Reason = "missing_anchor"
)

// Broken is one link that does not resolve.
type Broken struct {
	Page        string // source page file name
	Destination string
	Reason      Reason
}

// Report summarizes a check.
type Report struct {
	Pages    int
	Links    int
	Skipped  int      // external links and links leaving the directory
	Broken   []Broken // sorted by page, then destination
	Modified []string // pages whose front matter fingerprint no longer matches
}

// OK reports whether no broken link was found.
func (r *Report) OK() bool { return len(r.Broken) == 0 }

type page struct {
	body    []byte
	anchors map[string]struct{}
	status  frontmatter.Status
}

type checker struct {
	dir   string
	pages map[string]*page
}

// CheckDir checks every *.md file directly inside dir.
func CheckDir(dir string) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat output directory").
			WithContext("path", dir).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ValidationError("output path is not a directory").
			WithContext("path", dir).
			Build()
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list pages").Build()
	}
	sort.Strings(files)

	c := &checker{dir: dir, pages: make(map[string]*page, len(files))}
	report := &Report{}
	for _, file := range files {
		name := filepath.Base(file)
		p, err := c.load(name)
		if err != nil {
			return nil, err
		}
		if p.status == frontmatter.StatusModified {
			report.Modified = append(report.Modified, name)
		}
		report.Pages++
		if err := c.checkPage(name, p, report); err != nil {
			return nil, err
		}
	}
	sort.Slice(report.Broken, func(i, j int) bool {
		if report.Broken[i].Page != report.Broken[j].Page {
			return report.Broken[i].Page < report.Broken[j].Page
		}
		return report.Broken[i].Destination < report.Broken[j].Destination
	})
	return report, nil
}

func (c *checker) checkPage(name string, p *page, report *Report) error {
	links, err := markdown.ExtractLinks(p.body, markdown.Options{})
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "failed to parse page").
			WithContext("page", name).
			Build()
	}
	for _, l := range links {
		if l.Kind == markdown.LinkKindAuto {
			continue
		}
		report.Links++
		reason, skipped, err := c.resolve(name, l)
		if err != nil {
			return err
		}
		switch {
		case skipped:
			report.Skipped++
		case reason != "":
			report.Broken = append(report.Broken, Broken{Page: name, Destination: l.Destination, Reason: reason})
		}
	}
	return nil
}

// resolve checks one link relative to the page named from.
func (c *checker) resolve(from string, l markdown.LinkRef) (Reason, bool, error) {
	if isExternal(l.Destination) {
		return "", true, nil
	}
	target, anchor := l.Split()

	name := from
	if target != "" {
		clean := path.Clean(strings.TrimPrefix(target, "./"))
		if clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, "/") {
			return "", true, nil
		}
		var ok bool
		name, ok = c.pageFile(clean)
		if !ok {
			return ReasonMissingPage, false, nil
		}
	}
	if anchor == "" {
		return "", false, nil
	}

	p, err := c.load(name)
	if err != nil {
		return "", false, err
	}
	if _, ok := p.anchors[anchor]; !ok {
		return ReasonMissingAnchor, false, nil
	}
	return "", false, nil
}

// pageFile maps a link path to an existing page file. Links written without
// the .md suffix (GitHub Pages and wiki conventions) match the .md file.
func (c *checker) pageFile(target string) (string, bool) {
	candidates := []string{target}
	if !strings.HasSuffix(target, ".md") {
		candidates = append(candidates, target+".md")
	}
	for _, cand := range candidates {
		if _, ok := c.pages[cand]; ok {
			return cand, true
		}
		if info, err := os.Stat(filepath.Join(c.dir, cand)); err == nil && !info.IsDir() {
			return cand, true
		}
	}
	return "", false
}

func (c *checker) load(name string) (*page, error) {
	if p, ok := c.pages[name]; ok {
		return p, nil
	}
	// #nosec G304 -- name is a page inside the checked output directory.
	content, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read page").
			WithContext("page", name).
			Build()
	}

	status, err := frontmatter.Verify(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter").
			WithContext("page", name).
			Build()
	}
	_, body, _, err := frontmatter.Split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid front matter").
			WithContext("page", name).
			Build()
	}

	headings, err := markdown.ExtractHeadings(body, markdown.Options{})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse page").
			WithContext("page", name).
			Build()
	}
	var slugger markdown.Slugger
	anchors := make(map[string]struct{}, len(headings))
	for _, h := range headings {
		anchors[slugger.Next(h.Text)] = struct{}{}
	}

	p := &page{body: body, anchors: anchors, status: status}
	c.pages[name] = p
	return p, nil
}

func isExternal(dest string) bool {
	if strings.HasPrefix(dest, "//") || strings.HasPrefix(dest, "/") {
		return true
	}
	u, err := url.Parse(dest)
	return err == nil && u.Scheme != ""
}
