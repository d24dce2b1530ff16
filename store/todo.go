package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Todo is an item of the demo todo list.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedTs int64  `json:"created_ts"`
}

// FindTodo is the find condition for todos. Results are newest first.
type FindTodo struct {
	ID        *string
	Completed *bool
	Limit     int
}

// UpdateTodo is the update condition for a todo. Nil fields are unchanged.
type UpdateTodo struct {
	ID        string
	Title     *string
	Completed *bool
}

// DeleteTodo selects todos to delete, by ID or by age.
type DeleteTodo struct {
	ID            *string
	CreatedBefore *int64
}

// ErrEmptyTitle is returned for a todo title that is blank after trimming.
var ErrEmptyTitle = errors.New("todo title is required")

// CreateTodo trims the title and stores a new, incomplete todo.
func (s *Store) CreateTodo(ctx context.Context, title string) (*Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return s.driver.CreateTodo(ctx, &Todo{
		ID:        s.newID(),
		Title:     title,
		CreatedTs: s.nowTs(),
	})
}

func (s *Store) ListTodos(ctx context.Context, find *FindTodo) ([]*Todo, error) {
	return s.driver.ListTodos(ctx, find)
}

// UpdateTodo applies update and returns the stored todo, or ErrNotFound.
func (s *Store) UpdateTodo(ctx context.Context, update *UpdateTodo) (*Todo, error) {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		update.Title = &title
	}
	return s.driver.UpdateTodo(ctx, update)
}

// ToggleTodo flips the completed flag of a todo.
func (s *Store) ToggleTodo(ctx context.Context, id string) (*Todo, error) {
	list, err := s.driver.ListTodos(ctx, &FindTodo{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	completed := !list[0].Completed
	return s.driver.UpdateTodo(ctx, &UpdateTodo{ID: id, Completed: &completed})
}

// DeleteTodo removes one todo, returning ErrNotFound if it does not exist.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	n, err := s.driver.DeleteTodos(ctx, &DeleteTodo{ID: &id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeTodos removes todos created before cutoffTs and returns how many went.
func (s *Store) PurgeTodos(ctx context.Context, cutoffTs int64) (int64, error) {
	return s.driver.DeleteTodos(ctx, &DeleteTodo{CreatedBefore: &cutoffTs})
}
