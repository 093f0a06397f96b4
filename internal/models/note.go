package models

import (
	"bytes"
	"encoding/json"
)

// Note is an optional free-text note. The zero value is an absent note,
// which is distinct from a present note holding the empty string.
type Note struct {
	text    string
	present bool
}

// NoteOf returns a present note.
func NoteOf(text string) Note {
	return Note{text: text, present: true}
}

// NoNote returns an absent note.
func NoNote() Note {
	return Note{}
}

// Get returns the note text and whether a note is present.
func (n Note) Get() (string, bool) {
	return n.text, n.present
}

// IsPresent reports whether a note was set, even an empty one.
func (n Note) IsPresent() bool {
	return n.present
}

// IsZero lets encoding/json omit absent notes.
func (n Note) IsZero() bool {
	return !n.present
}

// IsEmpty reports whether the note is absent or holds no text.
// Whitespace counts as text.
func (n Note) IsEmpty() bool {
	return !n.present || len(n.text) == 0
}

// String returns the text, or "" when absent.
func (n Note) String() string {
	return n.text
}

func (n Note) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	return json.Marshal(n.text)
}

func (n *Note) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = Note{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*n = NoteOf(text)
	return nil
}
