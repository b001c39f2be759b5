package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Bio is the speaker biography. It serializes as null when empty, as a
// string when it holds one paragraph and as an array of strings otherwise.
type Bio struct {
	paragraphs []string
}

// NewBio builds a Bio out of the paragraphs in order.
func NewBio(paragraphs ...string) Bio {
	if len(paragraphs) == 0 {
		return Bio{}
	}
	return Bio{paragraphs: append([]string(nil), paragraphs...)}
}

func (b Bio) IsNull() bool {
	return len(b.paragraphs) == 0
}

func (b Bio) IsMulti() bool {
	return len(b.paragraphs) > 1
}

// Paragraphs returns a copy of the bio paragraphs.
func (b Bio) Paragraphs() []string {
	return append([]string(nil), b.paragraphs...)
}

func (b Bio) Equals(o Bio) bool {
	if len(b.paragraphs) != len(o.paragraphs) {
		return false
	}
	for i, p := range b.paragraphs {
		if p != o.paragraphs[i] {
			return false
		}
	}
	return true
}

func (b Bio) String() string {
	switch len(b.paragraphs) {
	case 0:
		return ""
	case 1:
		return b.paragraphs[0]
	}
	return fmt.Sprintf("%q", b.paragraphs)
}

func (b Bio) MarshalJSON() ([]byte, error) {
	switch len(b.paragraphs) {
	case 0:
		return []byte("null"), nil
	case 1:
		return marshalText(b.paragraphs[0])
	}
	return marshalText(b.paragraphs)
}

// marshalText is json.Marshal without HTML escaping, so bios read the same
// as the other fields of the document.
func marshalText(v any) ([]byte, error) {
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (b *Bio) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		b.paragraphs = nil
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.paragraphs = []string{s}
	case '[':
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return err
		}
		if len(ss) == 0 {
			ss = nil
		}
		b.paragraphs = ss
	default:
		return fmt.Errorf("invalid bio value %s", data)
	}
	return nil
}
