package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// GetAll returns every todo newest first, with comments materialised
// (also newest first). Two queries, grouped in memory.
func (r *TodoRepository) GetAll(ctx context.Context) ([]*domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, userId, username, created_at FROM todos ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []*domain.Todo{}
	byID := map[string]*domain.Todo{}
	for rows.Next() {
		todo := &domain.Todo{Comments: []domain.Comment{}}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.OwnerID, &todo.Owner, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
		byID[todo.ID] = todo
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	if len(todos) == 0 {
		return todos, nil
	}

	commentRows, err := r.db.QueryContext(ctx,
		`SELECT id, title, todoId, userId, username, created_at FROM comments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var comment domain.Comment
		if err := commentRows.Scan(&comment.ID, &comment.Title, &comment.TodoID, &comment.AuthorID, &comment.Author, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if todo, ok := byID[comment.TodoID]; ok {
			todo.Comments = append(todo.Comments, comment)
		}
	}
	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) Insert(ctx context.Context, todo *domain.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, userId, username, created_at) VALUES (?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, todo.OwnerID, todo.Owner, todo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// Delete removes a todo and its comments after verifying ownership. The
// check and both deletes share one transaction, so a concurrent delete of
// the same todo observes ErrTodoNotFound rather than deleting twice.
func (r *TodoRepository) Delete(ctx context.Context, id string, requesterID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var ownerID int64
	err = tx.QueryRowContext(ctx, `SELECT userId FROM todos WHERE id = ?`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	if ownerID != requesterID {
		return domain.ErrForbidden
	}

	// comments first, they reference the todo via FK
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE todoId = ?`, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	return tx.Commit()
}

func (r *TodoRepository) GetComments(ctx context.Context, todoID string) ([]domain.Comment, error) {
	var exists string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM todos WHERE id = ?`, todoID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, todoId, userId, username, created_at FROM comments
		 WHERE todoId = ? ORDER BY created_at DESC`, todoID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(&comment.ID, &comment.Title, &comment.TodoID, &comment.AuthorID, &comment.Author, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	return comments, nil
}

// InsertComment verifies the parent todo still exists and inserts inside
// one transaction, so a comment can never attach to a todo deleted in
// between.
func (r *TodoRepository) InsertComment(ctx context.Context, comment *domain.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists string
	err = tx.QueryRowContext(ctx, `SELECT id FROM todos WHERE id = ?`, comment.TodoID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTodoNotFound
		}
		return fmt.Errorf("find todo: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO comments (id, title, todoId, userId, username, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.Title, comment.TodoID, comment.AuthorID, comment.Author, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return tx.Commit()
}
