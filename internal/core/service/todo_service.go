package service

import (
	"context"
	"crypto/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nventive-labs/todosync/internal/core/domain"
	"github.com/nventive-labs/todosync/internal/core/ports"
)

// SnapshotCache abstracts the optional read cache of the serialised todo
// collection (Redis). A nil cache disables caching entirely.
type SnapshotCache interface {
	// GetTodos returns the cached collection; ok is false on a miss.
	GetTodos(ctx context.Context) (todos []*domain.Todo, ok bool, err error)
	SetTodos(ctx context.Context, todos []*domain.Todo) error
	Invalidate(ctx context.Context) error
}

// TodoService implements the shared mutation/read surface over the
// repository contract. Every successful mutation invalidates the snapshot
// before returning, so a subsequent ListTodos always re-reads committed
// storage; broadcast state therefore never drifts from the store.
type TodoService struct {
	repo   ports.TodoRepository
	cache  SnapshotCache
	logger zerolog.Logger
}

func NewTodoService(repo ports.TodoRepository, cache SnapshotCache, logger zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, cache: cache, logger: logger}
}

func (s *TodoService) ListTodos(ctx context.Context) ([]*domain.Todo, error) {
	if s.cache != nil {
		if todos, ok, err := s.cache.GetTodos(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("snapshot read failed, falling back to store")
		} else if ok {
			return todos, nil
		}
	}

	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list todos")
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetTodos(ctx, todos); err != nil {
			s.logger.Warn().Err(err).Msg("failed to refresh todo snapshot")
		}
	}
	return todos, nil
}

// ListTodosFresh bypasses the snapshot cache. Invalidate-then-read is not
// enough for broadcasts: a concurrent cached read that started before the
// mutation committed can repopulate the snapshot in between, so the
// broadcast path must not trust the cache at all.
func (s *TodoService) ListTodosFresh(ctx context.Context) ([]*domain.Todo, error) {
	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list todos")
		return nil, err
	}
	return todos, nil
}

// AddTodo persists a new todo owned by actor. The title is stored as
// supplied; emptiness checks are a client concern.
func (s *TodoService) AddTodo(ctx context.Context, title string, actor domain.Identity) (*domain.Todo, error) {
	todo := &domain.Todo{
		ID:        generateID(),
		Title:     title,
		OwnerID:   actor.ID,
		Owner:     actor.Username,
		CreatedAt: time.Now().UTC(),
		Comments:  []domain.Comment{},
	}

	if err := s.repo.Insert(ctx, todo); err != nil {
		s.logger.Error().Err(err).Str("owner", actor.Username).Msg("failed to add todo")
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info().Str("todo_id", todo.ID).Str("owner", actor.Username).Msg("todo added")
	return todo, nil
}

// DeleteTodo removes actor's own todo, cascading its comments. The
// ownership check runs inside the store, atomically with the delete.
func (s *TodoService) DeleteTodo(ctx context.Context, id string, actor domain.Identity) error {
	if err := s.repo.Delete(ctx, id, actor.ID); err != nil {
		s.logger.Warn().Err(err).Str("todo_id", id).Str("requester", actor.Username).Msg("delete refused")
		return err
	}
	s.invalidate(ctx)

	s.logger.Info().Str("todo_id", id).Str("owner", actor.Username).Msg("todo deleted")
	return nil
}

func (s *TodoService) ListComments(ctx context.Context, todoID string) ([]domain.Comment, error) {
	return s.repo.GetComments(ctx, todoID)
}

func (s *TodoService) AddComment(ctx context.Context, todoID, body string, actor domain.Identity) (*domain.Comment, error) {
	comment := &domain.Comment{
		ID:        generateID(),
		Title:     body,
		TodoID:    todoID,
		AuthorID:  actor.ID,
		Author:    actor.Username,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.InsertComment(ctx, comment); err != nil {
		s.logger.Warn().Err(err).Str("todo_id", todoID).Str("author", actor.Username).Msg("failed to add comment")
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info().Str("comment_id", comment.ID).Str("todo_id", todoID).Str("author", actor.Username).Msg("comment added")
	return comment, nil
}

func (s *TodoService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate todo snapshot")
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const idLength = 8

// generateID returns an opaque random base-36 token. IDs carry no ordering;
// reads always order by created_at.
func generateID() string {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		// fallback: derive from current nanoseconds
		s := strconv.FormatInt(time.Now().UnixNano(), 36)
		for len(s) < idLength {
			s = "0" + s
		}
		return s[len(s)-idLength:]
	}
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return string(b)
}
