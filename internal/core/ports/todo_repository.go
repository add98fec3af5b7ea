package ports

import (
	"context"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

// TodoRepository defines persistence operations for todos and their
// comments. All reads order by creation time, newest first; clients render
// lists assuming this, so the ordering is part of the contract.
type TodoRepository interface {
	// GetAll returns every todo with its comments materialised.
	GetAll(ctx context.Context) ([]*domain.Todo, error)
	Insert(ctx context.Context, todo *domain.Todo) error
	// Delete removes the todo and cascades its comments. The ownership
	// check happens inside the store, atomically with the delete: it fails
	// with domain.ErrTodoNotFound when id is absent and domain.ErrForbidden
	// when requesterID does not own the todo. Concurrent deletes of the
	// same todo resolve so that at most one caller succeeds.
	Delete(ctx context.Context, id string, requesterID int64) error
	// GetComments returns the comments of one todo, failing with
	// domain.ErrTodoNotFound when the todo does not exist.
	GetComments(ctx context.Context, todoID string) ([]domain.Comment, error)
	// InsertComment persists a comment, failing with domain.ErrTodoNotFound
	// when the referenced todo does not exist.
	InsertComment(ctx context.Context, comment *domain.Comment) error
}
