package payload

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is one loaded telemetry payload. It is immutable: the loop reuses
// the same Document for every round, and anything that needs a per-round
// variant (envelope, randomized fields) derives a fresh body from it.
type Document struct {
	value     any
	wire      []byte
	randomKey string
}

// NotFoundError reports that the payload file could not be read at all.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("payload: read %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SyntaxError reports that the payload file was read but is not valid JSON.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("payload: parse %s: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Load reads the file at path fully and parses it as a single JSON document.
// The whole document must parse or the load fails; there is no partial or
// streaming mode. Read failures and parse failures are distinct error types
// so startup diagnostics can tell "file missing" from "file broken".
//
// A top-level object of the form {"random_key": "...", "data": <value>}
// is recognised as the wrapped format: the data value becomes the document
// and the named key drives per-round randomization downstream.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}

	doc := &Document{value: value}
	if obj, ok := value.(map[string]any); ok {
		if key, ok := obj["random_key"].(string); ok {
			if data, ok := obj["data"]; ok {
				doc.value = data
				doc.randomKey = key
			}
		}
	}

	// Re-serialize once so every round sends identical canonical bytes.
	wire, err := json.Marshal(doc.value)
	if err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	doc.wire = wire

	return doc, nil
}

// Value returns the parsed document.
func (d *Document) Value() any { return d.value }

// Bytes returns the canonical re-serialized form used as the wire body.
// Callers must not modify the returned slice.
func (d *Document) Bytes() []byte { return d.wire }

// RandomKey returns the field name to randomize per round, or "" when the
// file was a plain document.
func (d *Document) RandomKey() string { return d.randomKey }
