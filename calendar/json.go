package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const indent = "  "

// Encode writes v as JSON with lexicographically sorted keys and
// two-space indentation. Struct fields of the schedule types are declared
// in key order, maps are sorted by encoding/json.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to encode schedule: %w", err)
	}
	return nil
}

// Marshal is Encode into a byte slice.
func Marshal(v any) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a schedule document as written by Encode.
func Decode(r io.Reader) (Sessions, error) {
	sessions := make(Sessions, 0)
	if err := json.NewDecoder(r).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("unable to decode schedule: %w", err)
	}
	return sessions, nil
}
