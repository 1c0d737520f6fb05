// Package core holds the NoteFlow document model and the state container that owns it.
package core

import (
	"encoding/json"
	"slices"
)

// StorageKey is the fixed key under which the whole Document is persisted.
const StorageKey = "noteflow_state"

// Sort modes.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortAZ     = "az"
	SortPinned = "pinned"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultColor is the color of a freshly created note.
const DefaultColor = "default"

// MaxHistory bounds the number of snapshots kept per note.
const MaxHistory = 20

// Colors lists the accepted note colors.
var Colors = []string{"default", "red", "orange", "yellow", "green", "teal", "blue", "purple", "pink"}

// NullString is a string that travels as JSON null when empty.
type NullString string

// MarshalJSON implements json.Marshaler.
func (s NullString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = NullString(v)
	return nil
}

// Notebook groups notes. Deleting one never deletes its notes.
type Notebook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// HistoryEntry is a saved version of a note's title and body.
type HistoryEntry struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	SavedAt int64  `json:"savedAt"`
}

// Note is a single rich-text note. Body holds HTML.
type Note struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	NotebookID NullString     `json:"notebookId"`
	Tags       []string       `json:"tags"`
	Color      string         `json:"color"`
	Pinned     bool           `json:"pinned"`
	Locked     bool           `json:"locked"`
	PIN        NullString     `json:"pin"`
	CreatedAt  int64          `json:"createdAt"`
	UpdatedAt  int64          `json:"updatedAt"`
	Trashed    bool           `json:"trashed"`
	History    []HistoryEntry `json:"history"`
}

// HasTag reports whether the note carries tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (n Note) clone() Note {
	c := n
	c.Tags = slices.Clone(n.Tags)
	c.History = slices.Clone(n.History)
	return c
}

// Settings are the user's view preferences. They sync along with the notes.
type Settings struct {
	Theme            string     `json:"theme"`
	Sort             string     `json:"sort"`
	ActiveNoteID     NullString `json:"activeNoteId"`
	ActiveNotebookID NullString `json:"activeNotebookId"`
	FilterTag        NullString `json:"filterTag"`
	ViewTrash        bool       `json:"viewTrash"`
	GridView         bool       `json:"gridView"`
	FocusMode        bool       `json:"focusMode"`
}

// Document is the full synchronizable unit: one user's notebooks, notes and settings.
type Document struct {
	Notebooks []Notebook
	Notes     []Note
	Settings  Settings

	// extra keeps unknown top-level keys so the blob round-trips losslessly.
	extra map[string]json.RawMessage
}

// DefaultDocument returns the document a first run starts from.
func DefaultDocument() *Document {
	return &Document{
		Notebooks: []Notebook{},
		Notes:     []Note{},
		Settings: Settings{
			Theme: ThemeDark,
			Sort:  SortNewest,
		},
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Notebooks: append([]Notebook(nil), d.Notebooks...),
		Notes:     make([]Note, len(d.Notes)),
		Settings:  d.Settings,
	}
	for i, n := range d.Notes {
		c.Notes[i] = n.clone()
	}
	if len(d.extra) > 0 {
		c.extra = make(map[string]json.RawMessage, len(d.extra))
		for k, v := range d.extra {
			c.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// FindNote returns a pointer into the document's notes, or nil.
func (d *Document) FindNote(id string) *Note {
	for i := range d.Notes {
		if d.Notes[i].ID == id {
			return &d.Notes[i]
		}
	}
	return nil
}

// FindNotebook returns a pointer into the document's notebooks, or nil.
func (d *Document) FindNotebook(id string) *Notebook {
	for i := range d.Notebooks {
		if d.Notebooks[i].ID == id {
			return &d.Notebooks[i]
		}
	}
	return nil
}
