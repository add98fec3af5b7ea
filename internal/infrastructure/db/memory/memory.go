// Package memory implements the repository contracts in process memory.
// It backs tests and the zero-dependency development mode; semantics match
// the sqlite store, including ownership-checked deletes, comment cascade
// and newest-first ordering. All state is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

type AuthRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{nextID: 1, users: make(map[string]*domain.User)}
}

func (r *AuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}

	created := *user
	created.ID = r.nextID
	r.nextID++
	r.users[created.Username] = &created

	clone := created
	return &clone, nil
}

func (r *AuthRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// TodoRepository keeps todos and comments newest first by prepending, the
// same order the persistent store produces with ORDER BY created_at DESC.
type TodoRepository struct {
	mu       sync.Mutex
	todos    []*domain.Todo
	comments map[string][]domain.Comment
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{comments: make(map[string][]domain.Comment)}
}

func (r *TodoRepository) GetAll(_ context.Context) ([]*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		clone := *todo
		clone.Comments = append([]domain.Comment{}, r.comments[todo.ID]...)
		out = append(out, &clone)
	}
	return out, nil
}

func (r *TodoRepository) Insert(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *todo
	clone.Comments = nil
	r.todos = append([]*domain.Todo{&clone}, r.todos...)
	return nil
}

func (r *TodoRepository) Delete(_ context.Context, id string, requesterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, todo := range r.todos {
		if todo.ID != id {
			continue
		}
		if todo.OwnerID != requesterID {
			return domain.ErrForbidden
		}
		r.todos = append(r.todos[:i], r.todos[i+1:]...)
		delete(r.comments, id)
		return nil
	}
	return domain.ErrTodoNotFound
}

func (r *TodoRepository) GetComments(_ context.Context, todoID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.exists(todoID) {
		return nil, domain.ErrTodoNotFound
	}
	return append([]domain.Comment{}, r.comments[todoID]...), nil
}

func (r *TodoRepository) InsertComment(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.exists(comment.TodoID) {
		return domain.ErrTodoNotFound
	}
	r.comments[comment.TodoID] = append([]domain.Comment{*comment}, r.comments[comment.TodoID]...)
	return nil
}

func (r *TodoRepository) exists(todoID string) bool {
	for _, todo := range r.todos {
		if todo.ID == todoID {
			return true
		}
	}
	return false
}
