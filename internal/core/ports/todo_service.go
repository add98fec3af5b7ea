package ports

import (
	"context"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

// TodoService is the mutation and read surface shared by the realtime hub
// and the REST handlers, so both stay behaviourally consistent. The actor
// is always the authenticated Identity attached to the connection or
// request, never anything found in a payload.
type TodoService interface {
	ListTodos(ctx context.Context) ([]*domain.Todo, error)
	// ListTodosFresh reads the collection straight from the store, never
	// the snapshot cache. Broadcast reads go through this so a frame
	// always reflects storage as committed by the triggering mutation.
	ListTodosFresh(ctx context.Context) ([]*domain.Todo, error)
	AddTodo(ctx context.Context, title string, actor domain.Identity) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id string, actor domain.Identity) error
	ListComments(ctx context.Context, todoID string) ([]domain.Comment, error)
	AddComment(ctx context.Context, todoID, body string, actor domain.Identity) (*domain.Comment, error)
}
