// Package server is the persistence service behind the dayboard client:
// a small REST API over a local SQLite file. It knows nothing about groups,
// drags, or sequence numbers — it stores and returns item records.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"dayboard-cli/internal/model"

	"github.com/gin-gonic/gin"
)

type Server struct {
	repo *ItemsRepo
}

func New(repo *ItemsRepo) *Server {
	return &Server{repo: repo}
}

// Router builds the gin engine. Quiet mode (used by tests and the TUI's
// embedded server) skips the request logger.
func (s *Server) Router(quiet bool) *gin.Engine {
	if quiet {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if !quiet {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/items", s.listItems)
		apiGroup.POST("/items", s.createItems)
		// The bulk route must be registered before the :id route param
		// would otherwise swallow "bulk".
		apiGroup.PUT("/items/bulk", s.bulkUpdate)
		apiGroup.PUT("/items/:id", s.updateItem)
		apiGroup.DELETE("/items/:id", s.deleteItem)
	}
	return r
}

func (s *Server) ListenAndServe(addr string, quiet bool) error {
	return s.Router(quiet).Run(addr)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func serverError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func validateItem(it model.Item) string {
	switch {
	case strings.TrimSpace(it.ID) == "":
		return "missing id"
	case strings.TrimSpace(it.Text) == "":
		return "missing text"
	case !model.ValidItemType(it.Type):
		return "invalid type: " + string(it.Type)
	case !model.ValidPriority(it.Priority):
		return "invalid priority: " + string(it.Priority)
	}
	if it.DueDate != nil {
		if _, err := model.ParseDate(string(*it.DueDate)); err != nil {
			return "invalid dueDate: " + string(*it.DueDate)
		}
	}
	return ""
}

func (s *Server) listItems(c *gin.Context) {
	items, err := s.repo.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) createItems(c *gin.Context) {
	var items []model.Item
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, "body must be an array of items: "+err.Error())
		return
	}
	if len(items) == 0 {
		badRequest(c, "no items")
		return
	}
	now := time.Now().UTC()
	for i := range items {
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		if msg := validateItem(items[i]); msg != "" {
			badRequest(c, msg)
			return
		}
	}
	if err := s.repo.Create(c.Request.Context(), items); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, items)
}

func (s *Server) updateItem(c *gin.Context) {
	var it model.Item
	if err := c.ShouldBindJSON(&it); err != nil {
		badRequest(c, err.Error())
		return
	}
	it.ID = c.Param("id")
	if msg := validateItem(it); msg != "" {
		badRequest(c, msg)
		return
	}
	if err := s.repo.Update(c.Request.Context(), it); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (s *Server) bulkUpdate(c *gin.Context) {
	var items []model.Item
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, "body must be an array of items: "+err.Error())
		return
	}
	for _, it := range items {
		if msg := validateItem(it); msg != "" {
			badRequest(c, msg)
			return
		}
	}
	if err := s.repo.BulkUpdate(c.Request.Context(), items); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(items)})
}

func (s *Server) deleteItem(c *gin.Context) {
	if err := s.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OpenAndServe is the serve command entry: open (or create) the database and
// listen.
func OpenAndServe(ctx context.Context, dbPath, addr string, quiet bool) error {
	repo, err := OpenRepo(ctx, dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	return New(repo).ListenAndServe(addr, quiet)
}
