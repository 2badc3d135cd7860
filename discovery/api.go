package discovery

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// APIServer exposes the refresh pipeline over HTTP for an external
// scheduler.
type APIServer struct {
	service *Service
	secret  string
}

// NewAPIServer creates a refresh API server. An empty secret rejects every
// request.
func NewAPIServer(service *Service, secret string) *APIServer {
	return &APIServer{
		service: service,
		secret:  secret,
	}
}

// RegisterRoutes adds GET /api/update-olympic-data to the router.
func (s *APIServer) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/update-olympic-data", RequireBearer(s.secret), s.HandleRefresh)
}

// RefreshCounts is the number of records captured per feed.
type RefreshCounts struct {
	Medals     int `json:"medals"`
	News       int `json:"news"`
	Highlights int `json:"highlights"`
	Schedule   int `json:"schedule"`
}

// RefreshResponse represents the response for GET /api/update-olympic-data.
type RefreshResponse struct {
	Success   bool              `json:"success"`
	Timestamp time.Time         `json:"timestamp"`
	Data      RefreshCounts     `json:"data"`
	Errors    map[string]string `json:"errors,omitempty"`
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

// RequireBearer rejects requests whose Authorization header is not
// "Bearer <secret>". An empty secret rejects everything.
func RequireBearer(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if secret == "" || !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "Unauthorized"))
			return
		}
		c.Next()
	}
}

// HandleRefresh handles GET /api/update-olympic-data.
func (s *APIServer) HandleRefresh(c *gin.Context) {
	result, err := s.service.Refresh(c.Request.Context())
	if err != nil {
		s.service.logger.Error("refresh failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to persist snapshots"))
		return
	}

	resp := RefreshResponse{
		Success:   true,
		Timestamp: result.CapturedAt,
		Data: RefreshCounts{
			Medals:     len(result.Medals),
			News:       len(result.Articles),
			Highlights: len(result.Highlights),
			Schedule:   len(result.Events),
		},
	}
	if errs := result.Errors(); len(errs) > 0 {
		resp.Errors = errs
	}

	c.JSON(http.StatusOK, resp)
}
