package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

type createTodoRequest struct {
	Title string `json:"title"`
}

type updateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *APIV1Service) ListTodos(c echo.Context) error {
	find := &store.FindTodo{}
	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "completed must be a boolean")
		}
		find.Completed = &completed
	}
	todos, err := s.Store.ListTodos(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list todos").SetInternal(err)
	}
	return c.JSON(http.StatusOK, todos)
}

func (s *APIV1Service) CreateTodo(c echo.Context) error {
	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	todo, err := s.Store.CreateTodo(c.Request().Context(), req.Title)
	if err != nil {
		return todoError(err, "failed to create todo")
	}
	s.recordTodo("create")
	return c.JSON(http.StatusCreated, todo)
}

func (s *APIV1Service) UpdateTodo(c echo.Context) error {
	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	todo, err := s.Store.UpdateTodo(c.Request().Context(), &store.UpdateTodo{
		ID:        c.Param("id"),
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		return todoError(err, "failed to update todo")
	}
	s.recordTodo("update")
	return c.JSON(http.StatusOK, todo)
}

func (s *APIV1Service) ToggleTodo(c echo.Context) error {
	todo, err := s.Store.ToggleTodo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return todoError(err, "failed to toggle todo")
	}
	s.recordTodo("toggle")
	return c.JSON(http.StatusOK, todo)
}

func (s *APIV1Service) DeleteTodo(c echo.Context) error {
	if err := s.Store.DeleteTodo(c.Request().Context(), c.Param("id")); err != nil {
		return todoError(err, "failed to delete todo")
	}
	s.recordTodo("delete")
	return c.NoContent(http.StatusNoContent)
}

func todoError(err error, message string) error {
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "todo not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(err)
	}
}

func (s *APIV1Service) recordTodo(op string) {
	if s.Metrics != nil {
		s.Metrics.RecordTodoOperation(op)
	}
}
