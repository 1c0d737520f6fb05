package core

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Top-level document keys.
const (
	keyNotebooks = "notebooks"
	keyNotes     = "notes"
	keySettings  = "settings"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// ValidPIN reports whether pin is a 4-digit code.
func ValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// MarshalJSON writes the document as a single object, unknown keys included.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.extra)+3)
	for k, v := range d.extra {
		out[k] = v
	}

	notebooks := d.Notebooks
	if notebooks == nil {
		notebooks = []Notebook{}
	}
	notes := d.Notes
	if notes == nil {
		notes = []Note{}
	}

	var err error
	if out[keyNotebooks], err = json.Marshal(notebooks); err != nil {
		return nil, err
	}
	if out[keyNotes], err = json.Marshal(notes); err != nil {
		return nil, err
	}
	if out[keySettings], err = json.Marshal(d.Settings); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON starts from the default document and overlays what data holds.
func (d *Document) UnmarshalJSON(data []byte) error {
	fresh := DefaultDocument()
	if err := fresh.overlay(data); err != nil {
		return err
	}
	*d = *fresh
	return nil
}

// DecodeDocument parses a persisted blob and normalizes it.
func DecodeDocument(data []byte) (*Document, error) {
	doc := DefaultDocument()
	if err := doc.overlay(data); err != nil {
		return nil, err
	}
	doc.normalize()
	return doc, nil
}

// overlay replaces each top-level key present in data. It decodes everything
// before touching d, so a malformed blob leaves d as it was.
func (d *Document) overlay(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("decode document: not an object")
	}

	var (
		notebooks    []Notebook
		notes        []Note
		settings     Settings
		hasNotebooks bool
		hasNotes     bool
		hasSettings  bool
		extra        = map[string]json.RawMessage{}
	)

	for key, value := range raw {
		switch key {
		case keyNotebooks:
			hasNotebooks = true
			if err := json.Unmarshal(value, &notebooks); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		case keyNotes:
			hasNotes = true
			if err := json.Unmarshal(value, &notes); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		case keySettings:
			hasSettings = true
			if err := json.Unmarshal(value, &settings); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		default:
			extra[key] = value
		}
	}

	if hasNotebooks {
		d.Notebooks = notebooks
	}
	if hasNotes {
		d.Notes = notes
	}
	if hasSettings {
		d.Settings = settings
	}
	if len(extra) > 0 {
		if d.extra == nil {
			d.extra = make(map[string]json.RawMessage, len(extra))
		}
		for k, v := range extra {
			d.extra[k] = v
		}
	}
	return nil
}

// normalize restores the structural invariants after a load or a merge.
// Dangling notebook references are left alone; only DeleteNotebook clears them.
func (d *Document) normalize() {
	if d.Notebooks == nil {
		d.Notebooks = []Notebook{}
	}
	if d.Notes == nil {
		d.Notes = []Note{}
	}
	if d.Settings.Sort == "" {
		d.Settings.Sort = SortNewest
	}
	if d.Settings.Theme == "" {
		d.Settings.Theme = ThemeDark
	}

	for i := range d.Notes {
		n := &d.Notes[i]
		if n.Tags == nil {
			n.Tags = []string{}
		}
		if n.History == nil {
			n.History = []HistoryEntry{}
		}
		if n.Color == "" {
			n.Color = DefaultColor
		}
		if n.UpdatedAt < n.CreatedAt {
			n.UpdatedAt = n.CreatedAt
		}
		if n.Locked && !ValidPIN(string(n.PIN)) {
			n.Locked = false
		}
		if !n.Locked {
			n.PIN = ""
		}
		if len(n.History) > MaxHistory {
			n.History = append([]HistoryEntry(nil), n.History[len(n.History)-MaxHistory:]...)
		}
	}
}
