package handlers

import (
	"errors"
	"net/http"
	"strings"

	"todomon/internal/models"
	"todomon/internal/storage"

	"github.com/gin-gonic/gin"
)

// TodoHandler handles todo operations
type TodoHandler struct {
	storage storage.Store
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(store storage.Store) *TodoHandler {
	return &TodoHandler{storage: store}
}

// ListTodos handles GET /api/todos
func (h *TodoHandler) ListTodos(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	todos, err := h.storage.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to retrieve todos",
		})
		return
	}

	c.JSON(http.StatusOK, models.TodosBody{Todos: todos})
}

// CreateTodo handles POST /api/todos
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var body models.TodoBody
	if bindErr := c.ShouldBindJSON(&body); bindErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_INPUT",
			Message: "Invalid request body",
			Details: map[string]interface{}{"error": bindErr.Error()},
		})
		return
	}

	todo := body.Todo
	if strings.TrimSpace(todo.Title) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Todo title must not be empty",
		})
		return
	}
	if !models.ValidStatus(todo.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_STATUS",
			Message: "Status must be one of: active, completed",
		})
		return
	}

	created, err := h.storage.Create(todo)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateID) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Code:    "DUPLICATE_ID",
				Message: "A todo with this id already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to create todo",
		})
		return
	}

	c.JSON(http.StatusCreated, models.TodoBody{Todo: created})
}

// UpdateTodo handles PUT /api/todos/:todoId
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	todoID := c.Param("todoId")

	var body models.TodoBody
	if bindErr := c.ShouldBindJSON(&body); bindErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_INPUT",
			Message: "Invalid request body",
			Details: map[string]interface{}{"error": bindErr.Error()},
		})
		return
	}

	todo := body.Todo
	if todo.ID != todoID {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "ID_MISMATCH",
			Message: "Todo id must match the URL",
		})
		return
	}
	if !models.ValidStatus(todo.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_STATUS",
			Message: "Status must be one of: active, completed",
		})
		return
	}

	updated, err := h.storage.Update(todo)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Code:    "TODO_NOT_FOUND",
				Message: "The requested todo was not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to update todo",
		})
		return
	}

	c.JSON(http.StatusOK, models.TodoBody{Todo: updated})
}

// MoveTodo handles PUT /api/todos/:todoId/move
func (h *TodoHandler) MoveTodo(c *gin.Context) {
	fromID := c.Param("todoId")

	var body models.MoveBody
	if bindErr := c.ShouldBindJSON(&body); bindErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_INPUT",
			Message: "Invalid request body",
			Details: map[string]interface{}{"error": bindErr.Error()},
		})
		return
	}

	todos, err := h.storage.Move(fromID, body.ToID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to move todo",
		})
		return
	}

	c.JSON(http.StatusOK, models.TodosBody{Todos: todos})
}

// DeleteTodo handles DELETE /api/todos/:todoId
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	todoID := c.Param("todoId")

	deleted, err := h.storage.DeleteOne(todoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Code:    "TODO_NOT_FOUND",
				Message: "The requested todo was not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to delete todo",
		})
		return
	}

	c.JSON(http.StatusOK, models.TodoBody{Todo: deleted})
}

// DeleteTodos handles DELETE /api/todos
func (h *TodoHandler) DeleteTodos(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	deleted, err := h.storage.DeleteMany(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to delete todos",
		})
		return
	}

	c.JSON(http.StatusOK, models.TodosBody{Todos: deleted})
}

// parseFilter builds a filter from the request's query string. Unknown
// query keys are ignored; a malformed status value is rejected rather
// than silently matching nothing.
func parseFilter(c *gin.Context) (models.Filter, bool) {
	filter := models.ParseFilter(c.Request.URL.Query())
	if filter.Status != nil && !models.ValidStatus(*filter.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_STATUS",
			Message: "Status must be one of: active, completed",
		})
		return models.Filter{}, false
	}
	return filter, true
}
