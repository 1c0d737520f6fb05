package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

func ids(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

// seedNotes creates three notes a minute apart: banana, Apple, and a Thai title.
func seedNotes(t *testing.T) (*core.Service, [3]string) {
	t.Helper()
	svc, _, _, clock := newTestService(t)
	specs := []struct{ title, body, tag string }{
		{"banana", "<p>yellow <b>fruit</b></p>", "food"},
		{"Apple", "red", "work/meeting"},
		{"ข้าว", "rice", "work/todo"},
	}
	var out [3]string
	for i, s := range specs {
		if i > 0 {
			clock.Advance(time.Minute)
		}
		n, err := svc.CreateNote()
		require.NoError(t, err)
		require.NoError(t, svc.UpdateContent(n.ID, s.title, s.body))
		require.NoError(t, svc.AddTag(n.ID, s.tag))
		out[i] = n.ID
	}
	return svc, out
}

func list(t *testing.T, svc *core.Service, q core.Query) []string {
	t.Helper()
	notes, err := svc.ListNotes(q)
	require.NoError(t, err)
	return ids(notes)
}

func TestService_ListNotes(t *testing.T) {
	svc, n := seedNotes(t)
	banana, apple, rice := n[0], n[1], n[2]

	assert.Equal(t, []string{rice, apple, banana}, list(t, svc, core.Query{}))

	t.Run("search", func(t *testing.T) {
		assert.Equal(t, []string{apple}, list(t, svc, core.Query{Search: "APP"}))
		assert.Equal(t, []string{banana}, list(t, svc, core.Query{Search: "yellow fruit"}), "markup is ignored")
	})

	t.Run("tag pattern", func(t *testing.T) {
		assert.Equal(t, []string{rice, apple}, list(t, svc, core.Query{TagPattern: "work/*"}))

		_, err := svc.ListNotes(core.Query{TagPattern: "["})
		var verr *core.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("since", func(t *testing.T) {
		assert.Equal(t, []string{rice, apple}, list(t, svc, core.Query{Since: epoch.Add(time.Minute)}))
	})

	t.Run("sort modes", func(t *testing.T) {
		require.NoError(t, svc.SetSort(core.SortAZ))
		assert.Equal(t, []string{apple, banana, rice}, list(t, svc, core.Query{}))

		require.NoError(t, svc.SetSort(core.SortOldest))
		assert.Equal(t, []string{banana, apple, rice}, list(t, svc, core.Query{}))

		require.NoError(t, svc.SetSort(core.SortNewest))
	})

	t.Run("pinned first", func(t *testing.T) {
		_, err := svc.TogglePinned(banana)
		require.NoError(t, err)
		assert.Equal(t, []string{banana, rice, apple}, list(t, svc, core.Query{}))
	})

	t.Run("trash", func(t *testing.T) {
		require.NoError(t, svc.Trash(apple))
		assert.Equal(t, []string{banana, rice}, list(t, svc, core.Query{}))
		assert.Equal(t, []string{apple}, list(t, svc, core.Query{Trash: true}))
		assert.Equal(t, 1, svc.TrashCount())
	})
}

func TestService_Stats(t *testing.T) {
	svc, n := seedNotes(t)
	require.NoError(t, svc.Trash(n[1]))

	st := svc.Stats(svc.Now())
	assert.Equal(t, 2, st.Notes)
	assert.Equal(t, 1, st.Trashed)
	assert.Equal(t, 3, st.Words)
	assert.Equal(t, []core.Count{{Label: "food", Count: 1}, {Label: "work/todo", Count: 1}}, st.TopTags)
	assert.Equal(t, []core.Count{{Label: core.UnfiledLabel, Count: 2}}, st.TopNotebooks)
	require.Len(t, st.Activity, core.ActivityDays)
	assert.Equal(t, 2, st.Activity[core.ActivityDays-1].Count)
	assert.Equal(t, 1, st.Streak)

	later := svc.Stats(svc.Now().AddDate(0, 0, 2))
	assert.Zero(t, later.Streak)
}

func TestService_SuggestLinks(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	create := func(title string) string {
		n, err := svc.CreateNote()
		require.NoError(t, err)
		require.NoError(t, svc.SetTitle(n.ID, title))
		return n.ID
	}
	project := create("Project Alpha")
	alphabet := create("Alphabet")
	create("Beta")

	assert.Equal(t, []string{alphabet, project}, ids(svc.SuggestLinks("alpha")))

	require.NoError(t, svc.OpenNote(project))
	assert.Equal(t, []string{alphabet}, ids(svc.SuggestLinks("alpha")))
}
