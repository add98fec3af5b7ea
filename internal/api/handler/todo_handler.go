package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nventive-labs/todosync/internal/api/middleware"
	"github.com/nventive-labs/todosync/internal/core/ports"
)

// TodoHandler is the discrete request/response mirror of the event channel.
// It drives the same service as the hub, so ownership rules and ordering
// are identical; it exists for initial paint before the channel is ready
// and for clients without a persistent connection. REST mutations do not
// trigger hub broadcasts.
type TodoHandler struct {
	todoService ports.TodoService
}

func NewTodoHandler(todoService ports.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

type addTodoRequest struct {
	Title string `json:"title" validate:"required"`
}

type addCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// List returns the full todo collection, newest first.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Todo
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	todos, err := h.todoService.ListTodos(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todos)
}

// Add creates a todo owned by the authenticated user.
//
// @Summary      Add a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addTodoRequest  true  "Todo title"
// @Success      201   {object}  domain.Todo
// @Failure      400   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Add(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	var req addTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.AddTodo(c.Request().Context(), req.Title, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, todo)
}

// Delete removes the authenticated user's own todo and its comments.
//
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.todoService.DeleteTodo(c.Request().Context(), c.Param("id"), identity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "todo deleted"})
}

// ListComments returns one todo's comments, newest first.
//
// @Summary      List comments of a todo
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string  true  "Todo ID"
// @Success      200  {array}  domain.Comment
// @Failure      404  {object} map[string]string
// @Router       /todos/{id}/comments [get]
func (h *TodoHandler) ListComments(c echo.Context) error {
	comments, err := h.todoService.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// AddComment adds a comment to any existing todo. Unlike deletion, there is
// no ownership restriction here.
//
// @Summary      Add a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Todo ID"
// @Param        body  body      addCommentRequest  true  "Comment body"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id}/comments [post]
func (h *TodoHandler) AddComment(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.todoService.AddComment(c.Request().Context(), c.Param("id"), req.Comment, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}
