// Package frontmatter adds and reads the optional YAML front matter of
// generated pages.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the page started with a front matter
// delimiter but did not contain a closing one.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// If the page does not start with a delimiter, had is false and body is the
// full input. CRLF pages are accepted; the returned raw front matter keeps
// its original line endings.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closing):], true, nil
}

// Join emits raw front matter between `---` lines followed by body.
func Join(raw []byte, body []byte) []byte {
	out := make([]byte, 0, len(raw)+len(body)+2*len(delimiter)+2)
	out = append(out, delimiter+"\n"...)
	out = append(out, raw...)
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, delimiter+"\n"...)
	out = append(out, body...)
	return out
}

// Parse decodes raw YAML front matter (without delimiters) into a map.
func Parse(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Read splits and decodes a page in one step.
func Read(content []byte) (fields map[string]any, body []byte, had bool, err error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return nil, nil, false, err
	}
	fields, err = Parse(raw)
	if err != nil {
		return nil, nil, had, err
	}
	return fields, body, had, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
