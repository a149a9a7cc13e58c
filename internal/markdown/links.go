package markdown

import (
	"net/url"
	"strings"
)

// Options controls how Markdown is parsed for analysis.
type Options struct{}

// LinkKind classifies an extracted link.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// LinkRef is one link destination found in a page body.
type LinkRef struct {
	Kind        LinkKind
	Destination string
}

// Split separates the destination into its unescaped path and its anchor.
// A same-page link has an empty path.
func (l LinkRef) Split() (path, anchor string) {
	path, anchor, _ = strings.Cut(l.Destination, "#")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return path, anchor
}

// Heading is a heading found in a parsed body, with its plain text.
type Heading struct {
	Level int
	Text  string
}
