package domain

import (
	"errors"
	"time"
)

var ErrTodoNotFound = errors.New("todo not found")
var ErrForbidden = errors.New("cannot delete another user's todo")

// Todo is the core aggregate. Comments is a relationship materialised at
// read time, ordered newest first; it is never stored inline.
//
// JSON field names follow the wire format clients already render:
// "_id" for the ID and "user"/"userId" snapshots of the author.
type Todo struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	OwnerID   int64     `json:"userId"`
	Owner     string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Comments  []Comment `json:"comments"`
}

// Comment belongs to exactly one Todo and cascades away with it. Title is
// the comment body; the field name is historical. Comments are never
// edited or independently deleted.
type Comment struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TodoID    string    `json:"-"`
	AuthorID  int64     `json:"userId"`
	Author    string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
