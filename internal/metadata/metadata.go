// Package metadata defines the machine-readable records written next to each
// page and read back by dependency catalogs.
package metadata

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
)

// SidecarSuffix is appended to a page name to form its sidecar file name.
const SidecarSuffix = ".meta.json"

// Record describes one documented entity: the type of a page or one of its
// members. The type's record comes first in a sidecar.
type Record struct {
	Signature   string `json:"signature"`
	DisplayName string `json:"displayName"`
	Kind        string `json:"kind"`
	Summary     string `json:"summary"`
	Anchor      string `json:"anchor,omitempty"`
}

// SidecarName returns the sidecar file name for a page.
func SidecarName(page string) string {
	return page + SidecarSuffix
}

// PageOf returns the page name of a sidecar file name, or "" when name is
// not a sidecar.
func PageOf(name string) string {
	if !strings.HasSuffix(name, SidecarSuffix) {
		return ""
	}
	return strings.TrimSuffix(name, SidecarSuffix)
}

// Encode writes records as an indented JSON array.
func Encode(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.ValidationError("invalid metadata sidecar").WithCause(err).Build()
	}
	return records, nil
}

// ReadFile decodes the sidecar at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileSystemError("cannot open metadata sidecar").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()
	records, err := Decode(f)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "cannot decode metadata sidecar").
			WithContext("path", path).
			Build()
	}
	return records, nil
}
