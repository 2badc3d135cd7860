package snapshot

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pevans/olympichub/feeds"
)

// APIServer serves stored snapshots to the dashboard.
type APIServer struct {
	store *Store
}

// NewAPIServer creates a snapshot API server.
func NewAPIServer(store *Store) *APIServer {
	return &APIServer{store: store}
}

// RegisterRoutes adds GET /data/:file to the router.
func (s *APIServer) RegisterRoutes(r gin.IRouter) {
	r.GET("/data/:file", s.HandleGetSnapshot)
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// HandleGetSnapshot handles GET /data/{file}. Responses are never cached so
// the dashboard always sees the latest capture.
func (s *APIServer) HandleGetSnapshot(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	feed, err := feeds.ParseFeed(c.Param("file"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
		return
	}

	data, err := s.store.ReadRaw(feed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to read snapshot"))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
