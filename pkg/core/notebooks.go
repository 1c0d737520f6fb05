package core

import (
	"slices"
	"strings"
)

// CreateNotebook adds a notebook. Names are trimmed and must be unique, ignoring case.
func (s *Service) CreateNotebook(name string) (Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Notebook{}, &ValidationError{Field: "name", Message: "must not be empty"}
	}

	var created Notebook
	err := s.mutate(func(d *Document) error {
		for _, nb := range d.Notebooks {
			if strings.EqualFold(nb.Name, name) {
				return &ValidationError{Field: "name", Message: "notebook " + nb.Name + " already exists"}
			}
		}
		created = Notebook{ID: s.newID(), Name: name, CreatedAt: s.now()}
		d.Notebooks = append(d.Notebooks, created)
		return nil
	})
	return created, err
}

// RenameNotebook changes a notebook's name.
func (s *Service) RenameNotebook(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	return s.mutate(func(d *Document) error {
		nb := d.FindNotebook(id)
		if nb == nil {
			return ErrNotebookNotFound
		}
		nb.Name = name
		return nil
	})
}

// DeleteNotebook removes a notebook. Its notes survive with notebookId cleared.
func (s *Service) DeleteNotebook(id string) error {
	return s.mutate(func(d *Document) error {
		if d.FindNotebook(id) == nil {
			return ErrNotebookNotFound
		}
		for i := range d.Notes {
			if string(d.Notes[i].NotebookID) == id {
				d.Notes[i].NotebookID = ""
				s.touch(&d.Notes[i])
			}
		}
		d.Notebooks = slices.DeleteFunc(d.Notebooks, func(nb Notebook) bool { return nb.ID == id })
		if string(d.Settings.ActiveNotebookID) == id {
			d.Settings.ActiveNotebookID = ""
		}
		return nil
	})
}

// Notebooks returns the notebooks in creation order.
func (s *Service) Notebooks() []Notebook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notebook(nil), s.doc.Notebooks...)
}

// NotebookCount returns how many non-trashed notes are filed under id.
func (s *Service) NotebookCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, n := range s.doc.Notes {
		if !n.Trashed && string(n.NotebookID) == id {
			count++
		}
	}
	return count
}
