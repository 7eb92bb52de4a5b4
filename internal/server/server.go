package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dashboard/internal/storage"
)

// Server provides HTTP handlers for the dashboard backend.
type Server struct {
	engine    *gin.Engine
	store     storage.Backend
	logger    *logrus.Logger
	staticDir string
	now       func() time.Time
}

// New constructs the HTTP server with routes and middleware configured.
func New(store storage.Backend, logger *logrus.Logger, staticDir string) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors())

	srv := &Server{
		engine:    router,
		store:     store,
		logger:    logger,
		staticDir: staticDir,
		now:       time.Now,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// apiPrefixes lists the path roots answered by JSON handlers rather than the SPA.
var apiPrefixes = []string{"/todos", "/notes", "/bookmarks", "/healthz"}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	todos := s.engine.Group("/todos")
	{
		todos.GET("", s.handleListTodos)
		todos.POST("/add", s.handleAddTodo)
		todos.POST("/edit/:key", s.handleEditTodo)
		todos.DELETE("/remove", s.handleRemoveTodo)
	}

	notes := s.engine.Group("/notes")
	{
		notes.GET("", s.handleGetNotes)
		notes.POST("/edit", s.handleEditNotes)
	}

	bookmarks := s.engine.Group("/bookmarks")
	{
		bookmarks.GET("", s.handleListBookmarks)
		bookmarks.POST("/add", s.handleAddBookmark)
		bookmarks.POST("/edit/:id", s.handleEditBookmark)
		bookmarks.DELETE("/remove/:id", s.handleRemoveBookmark)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	s.logger.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"status": status,
	}).WithError(err).Error("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondStoreError maps storage sentinels to status codes.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrAmbiguousKey):
		s.respondError(c, http.StatusConflict, err)
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(c, http.StatusNotFound, err)
	default:
		s.respondError(c, http.StatusInternalServerError, err)
	}
}

// respondSuccess writes payload, or only the status when payload is nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
