package core

import (
	"regexp"
	"slices"
	"strings"
)

// QuickNoteTitle is the title given to a quick capture without one.
const QuickNoteTitle = "Quick Note"

// QuickTag marks notes created through quick capture.
const QuickTag = "quick"

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeTag trims, lowercases and dashes a tag. It returns "" for blank input.
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return whitespaceRun.ReplaceAllString(tag, "-")
}

// CreateNote prepends an empty note to the active notebook and opens it.
func (s *Service) CreateNote() (Note, error) {
	var created Note
	err := s.mutate(func(d *Document) error {
		now := s.now()
		n := Note{
			ID:         s.newID(),
			NotebookID: d.Settings.ActiveNotebookID,
			Tags:       []string{},
			Color:      DefaultColor,
			CreatedAt:  now,
			UpdatedAt:  now,
			History:    []HistoryEntry{},
		}
		d.Notes = slices.Insert(d.Notes, 0, n)
		d.Settings.ActiveNoteID = NullString(n.ID)
		d.Settings.ViewTrash = false
		created = n.clone()
		return nil
	})
	return created, err
}

// QuickCapture stores a note outside any notebook, tagged "quick".
// It returns (nil, nil) when both title and body are blank.
func (s *Service) QuickCapture(title, body string) (*Note, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return nil, nil
	}
	if title == "" {
		title = QuickNoteTitle
	}

	var created Note
	err := s.mutate(func(d *Document) error {
		now := s.now()
		n := Note{
			ID:        s.newID(),
			Title:     title,
			Body:      body,
			Tags:      []string{QuickTag},
			Color:     DefaultColor,
			CreatedAt: now,
			UpdatedAt: now,
			History:   []HistoryEntry{},
		}
		d.Notes = slices.Insert(d.Notes, 0, n)
		created = n.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Note returns a copy of the note with the given id.
func (s *Service) Note(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.doc.FindNote(id)
	if n == nil {
		return Note{}, ErrNoteNotFound
	}
	return n.clone(), nil
}

// ActiveNote returns the open note, if any.
func (s *Service) ActiveNote() (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := string(s.doc.Settings.ActiveNoteID)
	if id == "" {
		return Note{}, false
	}
	n := s.doc.FindNote(id)
	if n == nil {
		return Note{}, false
	}
	return n.clone(), true
}

// OpenNote makes id the active note.
func (s *Service) OpenNote(id string) error {
	return s.mutate(func(d *Document) error {
		if d.FindNote(id) == nil {
			return ErrNoteNotFound
		}
		d.Settings.ActiveNoteID = NullString(id)
		return nil
	})
}

// CloseNote clears the active note.
func (s *Service) CloseNote() error {
	return s.mutate(func(d *Document) error {
		d.Settings.ActiveNoteID = ""
		return nil
	})
}

// editNote runs fn on the note. When fn reports a change, updatedAt is bumped;
// otherwise nothing is persisted or pushed.
func (s *Service) editNote(id string, fn func(n *Note) (bool, error)) error {
	return s.mutate(func(d *Document) error {
		n := d.FindNote(id)
		if n == nil {
			return ErrNoteNotFound
		}
		changed, err := fn(n)
		if err != nil {
			return err
		}
		if !changed {
			return errNoChange
		}
		s.touch(n)
		return nil
	})
}

// SetTitle replaces a note's title.
func (s *Service) SetTitle(id, title string) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		n.Title = strings.TrimSpace(title)
		return true, nil
	})
}

// SetBody replaces a note's HTML body.
func (s *Service) SetBody(id, body string) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		n.Body = body
		return true, nil
	})
}

// UpdateContent replaces title and body in one mutation, the way an editor autosave does.
func (s *Service) UpdateContent(id, title, body string) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		n.Title = strings.TrimSpace(title)
		n.Body = body
		return true, nil
	})
}

// MoveToNotebook files a note under notebookID, or unfiles it when notebookID is empty.
func (s *Service) MoveToNotebook(id, notebookID string) error {
	return s.mutate(func(d *Document) error {
		n := d.FindNote(id)
		if n == nil {
			return ErrNoteNotFound
		}
		if notebookID != "" && d.FindNotebook(notebookID) == nil {
			return ErrNotebookNotFound
		}
		n.NotebookID = NullString(notebookID)
		s.touch(n)
		return nil
	})
}

// AddTag attaches a normalized tag. Blank and duplicate tags are ignored.
func (s *Service) AddTag(id, tag string) error {
	tag = NormalizeTag(tag)
	return s.editNote(id, func(n *Note) (bool, error) {
		if tag == "" || n.HasTag(tag) {
			return false, nil
		}
		n.Tags = append(n.Tags, tag)
		return true, nil
	})
}

// RemoveTag detaches a tag.
func (s *Service) RemoveTag(id, tag string) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		i := slices.Index(n.Tags, tag)
		if i < 0 {
			return false, nil
		}
		n.Tags = slices.Delete(n.Tags, i, i+1)
		return true, nil
	})
}

// TogglePinned flips the pinned flag and returns the new value.
func (s *Service) TogglePinned(id string) (bool, error) {
	var pinned bool
	err := s.editNote(id, func(n *Note) (bool, error) {
		n.Pinned = !n.Pinned
		pinned = n.Pinned
		return true, nil
	})
	return pinned, err
}

// SetColor sets the note color. Empty means the default color.
func (s *Service) SetColor(id, color string) error {
	if color == "" {
		color = DefaultColor
	}
	if !slices.Contains(Colors, color) {
		return &ValidationError{Field: "color", Message: "unknown color " + color}
	}
	return s.editNote(id, func(n *Note) (bool, error) {
		n.Color = color
		return true, nil
	})
}

// Trash soft-deletes a note and closes it if it was open.
func (s *Service) Trash(id string) error {
	return s.mutate(func(d *Document) error {
		n := d.FindNote(id)
		if n == nil {
			return ErrNoteNotFound
		}
		n.Trashed = true
		s.touch(n)
		if string(d.Settings.ActiveNoteID) == id {
			d.Settings.ActiveNoteID = ""
		}
		return nil
	})
}

// Restore brings a note back from the trash.
func (s *Service) Restore(id string) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		n.Trashed = false
		return true, nil
	})
}

// DeletePermanently removes a note from the document.
func (s *Service) DeletePermanently(id string) error {
	return s.mutate(func(d *Document) error {
		before := len(d.Notes)
		d.Notes = slices.DeleteFunc(d.Notes, func(n Note) bool { return n.ID == id })
		if len(d.Notes) == before {
			return ErrNoteNotFound
		}
		if string(d.Settings.ActiveNoteID) == id {
			d.Settings.ActiveNoteID = ""
		}
		return nil
	})
}

// EmptyTrash removes every trashed note and returns how many went.
func (s *Service) EmptyTrash() (int, error) {
	var removed int
	err := s.mutate(func(d *Document) error {
		before := len(d.Notes)
		d.Notes = slices.DeleteFunc(d.Notes, func(n Note) bool { return n.Trashed })
		removed = before - len(d.Notes)
		return nil
	})
	return removed, err
}
