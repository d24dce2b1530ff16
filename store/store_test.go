package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/store"
	"github.com/hrygo/portfolio/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	prof := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "portfolio_test.db"),
	}
	driver, err := sqlite.NewDB(prof)
	require.NoError(t, err)
	s := store.New(driver, prof)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPersonalInfo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	info, err := s.GetPersonalInfo(ctx)
	require.NoError(t, err)
	assert.Nil(t, info)

	created, err := s.UpsertPersonalInfo(ctx, &store.PersonalInfo{Name: "Ada", Title: "Engineer"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := s.UpsertPersonalInfo(ctx, &store.PersonalInfo{Name: "Ada Lovelace", Title: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedTs, updated.CreatedTs)
	assert.Equal(t, "Ada Lovelace", updated.Name)
}

func TestProjects_KeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	projects := []*store.Project{
		{Title: "Zeta", Technologies: []string{"Go", "SQLite"}},
		{Title: "Alpha"},
		{Title: "Mid", Technologies: []string{"React"}},
	}
	require.NoError(t, s.ReplaceProjects(ctx, projects))

	list, err := s.ListProjects(ctx, &store.FindProject{})
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, p := range list {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, titles)
	assert.Equal(t, []string{}, list[1].Technologies)

	if diff := cmp.Diff(projects[0], list[0]); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}

	got, err := s.GetProject(ctx, list[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Mid", got.Title)

	_, err = s.GetProject(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.ReplaceProjects(ctx, []*store.Project{{Title: "Only"}}))
	list, err = s.ListProjects(ctx, &store.FindProject{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSkills_OrderedByCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ReplaceSkills(ctx, []*store.Skill{
		{Name: "React", Category: "Frontend", Level: 90},
		{Name: "Go", Category: "Backend", Level: 85},
		{Name: "CSS", Category: "Frontend", Level: 80},
	}))

	list, err := s.ListSkills(ctx, &store.FindSkill{})
	require.NoError(t, err)
	want := []*store.Skill{
		{Name: "Go", Category: "Backend", Level: 85},
		{Name: "CSS", Category: "Frontend", Level: 80},
		{Name: "React", Category: "Frontend", Level: 90},
	}
	if diff := cmp.Diff(want, list, cmpopts.IgnoreFields(store.Skill{}, "ID", "CreatedTs")); diff != "" {
		t.Errorf("skills mismatch (-want +got):\n%s", diff)
	}

	frontend := "Frontend"
	list, err = s.ListSkills(ctx, &store.FindSkill{Category: &frontend})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	err = s.ReplaceSkills(ctx, []*store.Skill{{Name: "Bad", Level: 101}})
	assert.Error(t, err)
}

func TestTodos(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateTodo(ctx, "   ")
	assert.ErrorIs(t, err, store.ErrEmptyTitle)

	first, err := s.CreateTodo(ctx, "  first  ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Title)
	assert.False(t, first.Completed)

	second, err := s.CreateTodo(ctx, "second")
	require.NoError(t, err)

	list, err := s.ListTodos(ctx, &store.FindTodo{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	toggled, err := s.ToggleTodo(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = s.ToggleTodo(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	title := "renamed"
	updated, err := s.UpdateTodo(ctx, &store.UpdateTodo{ID: second.ID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	blank := " "
	_, err = s.UpdateTodo(ctx, &store.UpdateTodo{ID: second.ID, Title: &blank})
	assert.ErrorIs(t, err, store.ErrEmptyTitle)

	_, err = s.UpdateTodo(ctx, &store.UpdateTodo{ID: "missing", Title: &title})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ToggleTodo(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteTodo(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteTodo(ctx, first.ID), store.ErrNotFound)

	list, err = s.ListTodos(ctx, &store.FindTodo{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestPurgeTodos(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	todo, err := s.CreateTodo(ctx, "old")
	require.NoError(t, err)

	n, err := s.PurgeTodos(ctx, todo.CreatedTs)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = s.PurgeTodos(ctx, todo.CreatedTs+1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestContactMessages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	msg, err := s.CreateContactMessage(ctx, &store.ContactMessage{
		Name:    "Grace",
		Email:   "grace@example.com",
		Subject: "Hello",
		Message: "Nice site",
	})
	require.NoError(t, err)
	assert.Len(t, msg.Reference, 10)
	assert.NotEmpty(t, msg.ID)

	list, err := s.ListContactMessages(ctx, &store.FindContactMessage{Reference: &msg.Reference})
	require.NoError(t, err)
	require.Len(t, list, 1)
	if diff := cmp.Diff(msg, list[0]); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
}
