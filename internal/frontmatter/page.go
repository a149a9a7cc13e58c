package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
)

// Keys written into page front matter.
const (
	KeyTitle       = "title"
	KeyUID         = "uid"
	KeyModule      = "module"
	KeyNamespace   = "namespace"
	KeySignature   = "signature"
	KeyFingerprint = mdfp.FingerprintField
)

// uidSpace scopes page uids so they never collide with uids minted by other
// tools from the same names.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("xmldocmd:page"))

// Page describes the page a front matter block is written for. Signature is
// empty for the index page.
type Page struct {
	Title     string
	Module    string
	Namespace string
	Signature string
}

// UID returns the stable uid of a page: the same module and signature always
// map to the same value across runs.
func UID(module, signature string) string {
	return uuid.NewSHA1(uidSpace, []byte(module+"\x00"+signature)).String()
}

// Fields returns the front matter fields of p, without a fingerprint.
func Fields(p Page) map[string]any {
	fields := map[string]any{
		KeyTitle:  p.Title,
		KeyUID:    UID(p.Module, p.Signature),
		KeyModule: p.Module,
	}
	if p.Namespace != "" {
		fields[KeyNamespace] = p.Namespace
	}
	if p.Signature != "" {
		fields[KeySignature] = p.Signature
	}
	return fields
}

// Fingerprint computes the content fingerprint of a page. The fingerprint and
// uid fields are excluded from the hash.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == KeyFingerprint || k == KeyUID {
			continue
		}
		hashed[k] = v
	}
	raw, err := Marshal(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(raw), "\n"), string(body)), nil
}

// Prepend renders the front matter of p, fingerprint included, in front of
// body.
func Prepend(p Page, body []byte) ([]byte, error) {
	fields := Fields(p)
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return nil, err
	}
	fields[KeyFingerprint] = fp
	raw, err := Marshal(fields)
	if err != nil {
		return nil, err
	}
	return Join(raw, body), nil
}

// Status is the outcome of Verify.
type Status int

const (
	// StatusNone means the page has no front matter or no fingerprint.
	StatusNone Status = iota
	// StatusUnchanged means the stored fingerprint matches the content.
	StatusUnchanged
	// StatusModified means the page was edited after it was generated.
	StatusModified
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	default:
		return "none"
	}
}

// Verify recomputes the fingerprint of a generated page and compares it with
// the stored one.
func Verify(content []byte) (Status, error) {
	fields, body, had, err := Read(content)
	if err != nil {
		return StatusNone, err
	}
	if !had {
		return StatusNone, nil
	}
	stored, ok := fields[KeyFingerprint].(string)
	if !ok || strings.TrimSpace(stored) == "" {
		return StatusNone, nil
	}
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return StatusNone, fmt.Errorf("recompute fingerprint: %w", err)
	}
	if fp != strings.TrimSpace(stored) {
		return StatusModified, nil
	}
	return StatusUnchanged, nil
}
