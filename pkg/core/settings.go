package core

import "slices"

var sortModes = []string{SortNewest, SortOldest, SortAZ, SortPinned}

// Settings returns a copy of the current settings.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Settings
}

// ToggleTheme switches between dark and light and returns the new theme.
func (s *Service) ToggleTheme() (string, error) {
	var theme string
	err := s.mutate(func(d *Document) error {
		if d.Settings.Theme == ThemeLight {
			d.Settings.Theme = ThemeDark
		} else {
			d.Settings.Theme = ThemeLight
		}
		theme = d.Settings.Theme
		return nil
	})
	return theme, err
}

// SetTheme selects a theme.
func (s *Service) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return &ValidationError{Field: "theme", Message: "must be dark or light"}
	}
	return s.mutate(func(d *Document) error {
		d.Settings.Theme = theme
		return nil
	})
}

// SetSort selects the note list ordering.
func (s *Service) SetSort(mode string) error {
	if !slices.Contains(sortModes, mode) {
		return &ValidationError{Field: "sort", Message: "unknown sort mode " + mode}
	}
	return s.mutate(func(d *Document) error {
		d.Settings.Sort = mode
		return nil
	})
}

// SelectNotebook scopes the note list to a notebook. An empty id selects all notes.
func (s *Service) SelectNotebook(id string) error {
	return s.mutate(func(d *Document) error {
		if id != "" && d.FindNotebook(id) == nil {
			return ErrNotebookNotFound
		}
		d.Settings.ActiveNotebookID = NullString(id)
		d.Settings.FilterTag = ""
		d.Settings.ViewTrash = false
		return nil
	})
}

// ToggleFilterTag filters the list by tag, or clears the filter if tag is already selected.
func (s *Service) ToggleFilterTag(tag string) error {
	return s.mutate(func(d *Document) error {
		if string(d.Settings.FilterTag) == tag {
			d.Settings.FilterTag = ""
			return nil
		}
		d.Settings.FilterTag = NullString(tag)
		d.Settings.ActiveNotebookID = ""
		d.Settings.ViewTrash = false
		return nil
	})
}

// SetViewTrash switches the list between trashed and live notes.
func (s *Service) SetViewTrash(on bool) error {
	return s.mutate(func(d *Document) error {
		d.Settings.ViewTrash = on
		if on {
			d.Settings.ActiveNotebookID = ""
			d.Settings.FilterTag = ""
		}
		return nil
	})
}

// SetGridView toggles grid layout.
func (s *Service) SetGridView(on bool) error {
	return s.mutate(func(d *Document) error {
		d.Settings.GridView = on
		return nil
	})
}

// SetFocusMode toggles focus mode.
func (s *Service) SetFocusMode(on bool) error {
	return s.mutate(func(d *Document) error {
		d.Settings.FocusMode = on
		return nil
	})
}
