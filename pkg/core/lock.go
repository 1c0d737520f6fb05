package core

// Lock protects a note with a 4-digit PIN.
func (s *Service) Lock(id, pin string) error {
	if !ValidPIN(pin) {
		return &ValidationError{Field: "pin", Message: "must be exactly 4 digits"}
	}
	return s.editNote(id, func(n *Note) (bool, error) {
		if n.Locked {
			return false, ErrAlreadyLocked
		}
		n.Locked = true
		n.PIN = NullString(pin)
		return true, nil
	})
}

// VerifyPIN checks pin against a locked note without changing anything.
func (s *Service) VerifyPIN(id, pin string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.doc.FindNote(id)
	if n == nil {
		return ErrNoteNotFound
	}
	return checkPIN(n, pin)
}

// Unlock removes the lock. locked and pin are cleared together, and a wrong
// PIN leaves the note exactly as it was.
func (s *Service) Unlock(id, pin string) error {
	return s.editNote(id, func(n *Note) (bool, error) {
		if err := checkPIN(n, pin); err != nil {
			return false, err
		}
		n.Locked = false
		n.PIN = ""
		return true, nil
	})
}

func checkPIN(n *Note, pin string) error {
	if !n.Locked {
		return ErrNotLocked
	}
	if string(n.PIN) != pin {
		return ErrWrongPIN
	}
	return nil
}
