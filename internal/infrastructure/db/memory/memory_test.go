package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

func seedTodo(t *testing.T, repo *TodoRepository, id string, ownerID int64) {
	t.Helper()
	err := repo.Insert(context.Background(), &domain.Todo{
		ID:        id,
		Title:     "task " + id,
		OwnerID:   ownerID,
		Owner:     "owner",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert todo %s: %v", id, err)
	}
}

func TestTodoRepository_NewestFirst(t *testing.T) {
	repo := NewTodoRepository()
	seedTodo(t, repo, "aaa", 1)
	seedTodo(t, repo, "bbb", 1)
	seedTodo(t, repo, "ccc", 1)

	todos, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(todos))
	}
	for i, want := range []string{"ccc", "bbb", "aaa"} {
		if todos[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, todos[i].ID)
		}
	}
}

func TestTodoRepository_CommentsNewestFirst(t *testing.T) {
	repo := NewTodoRepository()
	seedTodo(t, repo, "aaa", 1)

	for _, id := range []string{"c1", "c2", "c3"} {
		err := repo.InsertComment(context.Background(), &domain.Comment{
			ID: id, Title: "body " + id, TodoID: "aaa", AuthorID: 1, Author: "owner",
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("insert comment %s: %v", id, err)
		}
	}

	comments, err := repo.GetComments(context.Background(), "aaa")
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	for i, want := range []string{"c3", "c2", "c1"} {
		if comments[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, comments[i].ID)
		}
	}
}

func TestTodoRepository_DeleteOwnership(t *testing.T) {
	repo := NewTodoRepository()
	seedTodo(t, repo, "aaa", 1)

	if err := repo.Delete(context.Background(), "aaa", 2); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := repo.Delete(context.Background(), "aaa", 1); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := repo.Delete(context.Background(), "aaa", 1); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}

func TestTodoRepository_DeleteCascades(t *testing.T) {
	repo := NewTodoRepository()
	seedTodo(t, repo, "aaa", 1)
	_ = repo.InsertComment(context.Background(), &domain.Comment{
		ID: "c1", Title: "body", TodoID: "aaa", AuthorID: 1, Author: "owner", CreatedAt: time.Now().UTC(),
	})

	if err := repo.Delete(context.Background(), "aaa", 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// reusing the ID must not resurrect the old comments
	seedTodo(t, repo, "aaa", 1)
	comments, err := repo.GetComments(context.Background(), "aaa")
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected cascade to remove comments, got %d", len(comments))
	}
}

func TestTodoRepository_CommentOnMissingTodo(t *testing.T) {
	repo := NewTodoRepository()

	err := repo.InsertComment(context.Background(), &domain.Comment{ID: "c1", TodoID: "nope"})
	if !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
	if _, err := repo.GetComments(context.Background(), "nope"); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoRepository_ReadsDoNotAlias(t *testing.T) {
	repo := NewTodoRepository()
	seedTodo(t, repo, "aaa", 1)

	todos, _ := repo.GetAll(context.Background())
	todos[0].Title = "mutated"

	again, _ := repo.GetAll(context.Background())
	if again[0].Title == "mutated" {
		t.Fatalf("GetAll must return copies, not aliased state")
	}
}

func TestAuthRepository_CreateAndFind(t *testing.T) {
	repo := NewAuthRepository()

	created, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "h", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	if _, err := repo.Create(context.Background(), &domain.User{Username: "alice"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	found, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected ID %d, got %d", created.ID, found.ID)
	}

	if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
