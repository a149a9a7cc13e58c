package markdown

import (
	"strconv"
	"strings"
	"unicode"
)

// Slug returns the anchor GitHub derives from heading text: lower-cased,
// punctuation removed, spaces replaced by hyphens.
func Slug(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Slugger assigns unique anchors within one page; repeats of a slug get
// "-1", "-2", ... suffixes. The zero value is ready to use.
type Slugger struct {
	seen map[string]int
}

// Next returns the anchor for the next heading with the given text.
func (s *Slugger) Next(heading string) string {
	if s.seen == nil {
		s.seen = make(map[string]int)
	}
	base := Slug(heading)
	slug := base
	for {
		if _, taken := s.seen[slug]; !taken {
			break
		}
		s.seen[base]++
		slug = base + "-" + strconv.Itoa(s.seen[base])
	}
	s.seen[slug] = 0
	return slug
}
