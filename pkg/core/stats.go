package core

import (
	"sort"
	"strings"
	"time"
)

// ActivityDays is the length of the activity window in Stats.
const ActivityDays = 30

// UnfiledLabel names the bucket of notes outside any notebook.
const UnfiledLabel = "No notebook"

// Count pairs a label with a number of notes.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayActivity is the number of notes last touched on a given day.
type DayActivity struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Stats summarizes the live (non-trashed) notes.
type Stats struct {
	Notes        int           `json:"notes"`
	Trashed      int           `json:"trashed"`
	Notebooks    int           `json:"notebooks"`
	Words        int           `json:"words"`
	TopTags      []Count       `json:"top_tags"`
	TopNotebooks []Count       `json:"top_notebooks"`
	Activity     []DayActivity `json:"activity"`
	Streak       int           `json:"streak"`
}

// Stats computes the dashboard figures as of now, bucketing days in now's location.
func (s *Service) Stats(now time.Time) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Notebooks: len(s.doc.Notebooks)}
	tags := map[string]int{}
	books := map[string]int{}
	perDay := map[string]int{}

	names := make(map[string]string, len(s.doc.Notebooks))
	for _, nb := range s.doc.Notebooks {
		names[nb.ID] = nb.Name
	}

	loc := now.Location()
	for _, n := range s.doc.Notes {
		if n.Trashed {
			st.Trashed++
			continue
		}
		st.Notes++
		st.Words += len(strings.Fields(StripHTML(n.Body)))
		for _, t := range n.Tags {
			tags[t]++
		}
		label, ok := names[string(n.NotebookID)]
		if !ok {
			label = UnfiledLabel
		}
		books[label]++
		perDay[dayKey(time.UnixMilli(n.UpdatedAt).In(loc))]++
	}

	st.TopTags = topCounts(tags, 5)
	st.TopNotebooks = topCounts(books, 5)

	start := now.AddDate(0, 0, -(ActivityDays - 1))
	for i := 0; i < ActivityDays; i++ {
		d := start.AddDate(0, 0, i)
		st.Activity = append(st.Activity, DayActivity{Date: d, Count: perDay[dayKey(d)]})
	}
	for i := 0; i < ActivityDays; i++ {
		if perDay[dayKey(now.AddDate(0, 0, -i))] == 0 {
			break
		}
		st.Streak++
	}
	return st
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// topCounts orders by count descending, then label, and keeps the first k.
func topCounts(m map[string]int, k int) []Count {
	out := make([]Count, 0, len(m))
	for label, c := range m {
		out = append(out, Count{Label: label, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
