package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/models"
	"dashboard/internal/storage"
)

const (
	headerEditOutcome   = "X-Edit-Outcome"
	headerRemoveOutcome = "X-Remove-Outcome"
)

type removeTodoRequest struct {
	Name *string `json:"name"`
}

// handleListTodos returns the stored collection. Read failures yield an empty list.
func (s *Server) handleListTodos(c *gin.Context) {
	todos, err := s.store.ListTodos(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Warn("todo list unavailable; returning empty collection")
		todos = nil
	}
	if todos == nil {
		todos = []models.RawTodo{}
	}
	respondSuccess(c, http.StatusOK, todos)
}

// handleAddTodo appends the posted record verbatim.
func (s *Server) handleAddTodo(c *gin.Context) {
	var todo models.RawTodo
	if err := c.ShouldBindJSON(&todo); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	added, err := s.store.AddTodo(c.Request.Context(), todo)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, added)
}

// handleEditTodo replaces the record whose derived key equals :key.
func (s *Server) handleEditTodo(c *gin.Context) {
	var todo models.RawTodo
	if err := c.ShouldBindJSON(&todo); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	outcome, err := s.store.ReplaceTodo(c.Request.Context(), c.Param("key"), todo)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.Header(headerEditOutcome, outcome.String())
	respondSuccess(c, http.StatusCreated, todo)
}

// handleRemoveTodo drops records whose name matches exactly. A request without a
// name matches nothing and still succeeds.
func (s *Server) handleRemoveTodo(c *gin.Context) {
	var req removeTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil {
		c.Header(headerRemoveOutcome, storage.NotFound.String())
		respondSuccess(c, http.StatusOK, gin.H{"deleted": nil})
		return
	}
	name := *req.Name

	outcome, err := s.store.RemoveTodo(c.Request.Context(), name)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.Header(headerRemoveOutcome, outcome.String())
	respondSuccess(c, http.StatusOK, gin.H{"deleted": name})
}
