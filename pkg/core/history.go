package core

// SaveSnapshot records the note's current title and body in its history.
// A snapshot identical to the last one is skipped; beyond MaxHistory the
// oldest entry is evicted. It reports whether a snapshot was appended.
func (s *Service) SaveSnapshot(id string) (bool, error) {
	var saved bool
	err := s.mutate(func(d *Document) error {
		n := d.FindNote(id)
		if n == nil {
			return ErrNoteNotFound
		}
		saved = appendHistory(n, HistoryEntry{Title: n.Title, Body: n.Body, SavedAt: s.now()})
		if !saved {
			return errNoChange
		}
		return nil
	})
	return saved, err
}

func appendHistory(n *Note, e HistoryEntry) bool {
	if k := len(n.History); k > 0 {
		last := n.History[k-1]
		if last.Title == e.Title && last.Body == e.Body {
			return false
		}
	}
	n.History = append(n.History, e)
	if over := len(n.History) - MaxHistory; over > 0 {
		n.History = append([]HistoryEntry(nil), n.History[over:]...)
	}
	return true
}

// History returns the note's snapshots, oldest first.
func (s *Service) History(id string) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.doc.FindNote(id)
	if n == nil {
		return nil, ErrNoteNotFound
	}
	return append([]HistoryEntry(nil), n.History...), nil
}

// RestoreSnapshot copies snapshot index back into the note's title and body.
func (s *Service) RestoreSnapshot(id string, index int) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		if index < 0 || index >= len(n.History) {
			return false, ErrNoSnapshot
		}
		snap := n.History[index]
		n.Title = snap.Title
		n.Body = snap.Body
		return true, nil
	})
}
