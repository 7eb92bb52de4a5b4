package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type notesRequest struct {
	Text *string `json:"text"`
}

// handleGetNotes returns the notes sheet, or empty text when it cannot be read.
func (s *Server) handleGetNotes(c *gin.Context) {
	text, err := s.store.ReadNotes(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Warn("notes unavailable; returning empty text")
		text = ""
	}
	respondSuccess(c, http.StatusOK, gin.H{"text": text})
}

// handleEditNotes overwrites the notes sheet.
func (s *Server) handleEditNotes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Text == nil {
		s.respondError(c, http.StatusBadRequest, errors.New("missing 'text' field in request body"))
		return
	}

	if err := s.store.WriteNotes(c.Request.Context(), *req.Text); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "notes updated", "text": *req.Text})
}
