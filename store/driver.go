package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	Migrate(ctx context.Context) error

	// PersonalInfo model related methods.
	UpsertPersonalInfo(ctx context.Context, upsert *PersonalInfo) (*PersonalInfo, error)
	GetPersonalInfo(ctx context.Context) (*PersonalInfo, error)

	// Project model related methods.
	ListProjects(ctx context.Context, find *FindProject) ([]*Project, error)
	ReplaceProjects(ctx context.Context, projects []*Project) error

	// Skill model related methods.
	ListSkills(ctx context.Context, find *FindSkill) ([]*Skill, error)
	ReplaceSkills(ctx context.Context, skills []*Skill) error

	// Todo model related methods.
	CreateTodo(ctx context.Context, create *Todo) (*Todo, error)
	ListTodos(ctx context.Context, find *FindTodo) ([]*Todo, error)
	UpdateTodo(ctx context.Context, update *UpdateTodo) (*Todo, error)
	DeleteTodos(ctx context.Context, delete *DeleteTodo) (int64, error)

	// ContactMessage model related methods.
	CreateContactMessage(ctx context.Context, create *ContactMessage) (*ContactMessage, error)
	ListContactMessages(ctx context.Context, find *FindContactMessage) ([]*ContactMessage, error)
}
