package core

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxLinkSuggestions bounds SuggestLinks results.
const MaxLinkSuggestions = 8

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML drops every tag from s.
func StripHTML(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// Query narrows ListNotes beyond what the settings select.
type Query struct {
	// Search matches the title or the tag-stripped body, ignoring case.
	Search string
	// TagPattern is a doublestar glob; a note matches if any tag does.
	TagPattern string
	// Since keeps notes updated at or after this instant.
	Since time.Time
	// Trash lists the trash whatever the ViewTrash setting says.
	Trash bool
}

// ListNotes returns the notes the current settings select, filtered by q and
// ordered by the sort mode. Pinned notes always come first.
func (s *Service) ListNotes(q Query) ([]Note, error) {
	if q.TagPattern != "" && !doublestar.ValidatePattern(q.TagPattern) {
		return nil, &ValidationError{Field: "tag", Message: "bad pattern " + q.TagPattern}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.doc.Settings
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var out []Note
	for _, n := range s.doc.Notes {
		if set.ViewTrash || q.Trash {
			if !n.Trashed {
				continue
			}
		} else {
			if n.Trashed {
				continue
			}
			if set.ActiveNotebookID != "" && n.NotebookID != set.ActiveNotebookID {
				continue
			}
			if set.FilterTag != "" && !n.HasTag(string(set.FilterTag)) {
				continue
			}
		}
		if search != "" && !matchesSearch(n, search) {
			continue
		}
		if q.TagPattern != "" && !matchesTagPattern(n, q.TagPattern) {
			continue
		}
		if !q.Since.IsZero() && n.UpdatedAt < q.Since.UnixMilli() {
			continue
		}
		out = append(out, n.clone())
	}

	sortNotes(out, set.Sort)
	return out, nil
}

func matchesSearch(n Note, search string) bool {
	if strings.Contains(strings.ToLower(n.Title), search) {
		return true
	}
	return strings.Contains(strings.ToLower(StripHTML(n.Body)), search)
}

func matchesTagPattern(n Note, pattern string) bool {
	for _, t := range n.Tags {
		if ok, _ := doublestar.Match(pattern, t); ok {
			return true
		}
	}
	return false
}

func sortNotes(notes []Note, mode string) {
	var less func(a, b Note) int
	switch mode {
	case SortAZ:
		// A Collator is not safe for concurrent use.
		c := collate.New(language.Thai, collate.IgnoreCase)
		less = func(a, b Note) int { return c.CompareString(a.Title, b.Title) }
	case SortOldest:
		less = func(a, b Note) int { return cmpInt64(a.CreatedAt, b.CreatedAt) }
	default:
		less = func(a, b Note) int { return cmpInt64(b.UpdatedAt, a.UpdatedAt) }
	}
	slices.SortStableFunc(notes, func(a, b Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return less(a, b)
	})
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Tags returns the sorted set of tags used by non-trashed notes.
func (s *Service) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, n := range s.doc.Notes {
		if n.Trashed {
			continue
		}
		for _, t := range n.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// TrashCount returns the number of trashed notes.
func (s *Service) TrashCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, n := range s.doc.Notes {
		if n.Trashed {
			count++
		}
	}
	return count
}

// SuggestLinks returns notes whose title contains query, for [[link]]
// completion. Trashed notes and the open note are skipped.
func (s *Service) SuggestLinks(query string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	active := s.doc.Settings.ActiveNoteID
	var out []Note
	for _, n := range s.doc.Notes {
		if n.Trashed || NullString(n.ID) == active {
			continue
		}
		if !strings.Contains(strings.ToLower(n.Title), q) {
			continue
		}
		out = append(out, n.clone())
		if len(out) == MaxLinkSuggestions {
			break
		}
	}
	return out
}
