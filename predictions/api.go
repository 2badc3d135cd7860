package predictions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIServer represents the HTTP API server for users, events and
// predictions.
type APIServer struct {
	store *Store
	admin gin.HandlerFunc
}

// NewAPIServer creates a new prediction API server. admin guards the event
// management routes; nil leaves them open.
func NewAPIServer(store *Store, admin gin.HandlerFunc) *APIServer {
	return &APIServer{
		store: store,
		admin: admin,
	}
}

// RegisterRoutes adds the prediction routes under /api.
func (s *APIServer) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/user/create", s.HandleCreateUser)
	api.GET("/user/:nickname", s.HandleGetUser)
	api.POST("/predictions/submit", s.HandleSubmitPrediction)
	api.GET("/leaderboard", s.HandleLeaderboard)

	events := api.Group("/events")
	if s.admin != nil {
		events.Use(s.admin)
	}
	events.POST("", s.HandleCreateEvent)
}

// CreateUserRequest represents the request for POST /api/user/create.
type CreateUserRequest struct {
	Nickname string `json:"nickname"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	User *User `json:"user"`
}

// CreateEventRequest represents the request for POST /api/events.
type CreateEventRequest struct {
	Sport     string      `json:"sport" binding:"required"`
	EventName string      `json:"event_name" binding:"required"`
	EventDate time.Time   `json:"event_date"`
	Venue     string      `json:"venue" binding:"required"`
	Status    EventStatus `json:"status"`
}

// EventResponse wraps a single event.
type EventResponse struct {
	Event *Event `json:"event"`
}

// SubmitPredictionRequest represents the request for POST
// /api/predictions/submit.
type SubmitPredictionRequest struct {
	UserID          string `json:"user_id"`
	EventID         string `json:"event_id"`
	PredictedGold   string `json:"predicted_gold"`
	PredictedSilver string `json:"predicted_silver"`
	PredictedBronze string `json:"predicted_bronze"`
}

// SubmitPredictionResponse represents the response for POST
// /api/predictions/submit.
type SubmitPredictionResponse struct {
	Prediction *Prediction `json:"prediction"`
	Message    string      `json:"message"`
}

// LeaderboardResponse represents the response for GET /api/leaderboard.
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
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

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, ErrNicknameTaken):
		c.JSON(http.StatusConflict, errorResponse("conflict", err.Error()))
	case errors.Is(err, ErrInvalidNickname),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrDuplicatePick),
		errors.Is(err, ErrEventClosed):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleCreateUser handles POST /api/user/create.
func (s *APIServer) HandleCreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	user, err := s.store.CreateUser(req.Nickname)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{User: user})
}

// HandleGetUser handles GET /api/user/{nickname}.
func (s *APIServer) HandleGetUser(c *gin.Context) {
	user, err := s.store.GetUserByNickname(c.Param("nickname"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: user})
}

// HandleCreateEvent handles POST /api/events.
func (s *APIServer) HandleCreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	if req.EventDate.IsZero() {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", "event_date is required"))
		return
	}
	if req.Status == "" {
		req.Status = EventUpcoming
	}

	event, err := s.store.CreateEvent(req.Sport, req.EventName, req.EventDate, req.Venue, req.Status)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, EventResponse{Event: event})
}

// HandleSubmitPrediction handles POST /api/predictions/submit.
func (s *APIServer) HandleSubmitPrediction(c *gin.Context) {
	var req SubmitPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	if req.UserID == "" || req.EventID == "" {
		s.handleError(c, ErrMissingField)
		return
	}
	picks := Picks{
		Gold:   req.PredictedGold,
		Silver: req.PredictedSilver,
		Bronze: req.PredictedBronze,
	}
	if err := picks.Validate(); err != nil {
		s.handleError(c, err)
		return
	}

	// Malformed IDs cannot name an existing row.
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.handleError(c, ErrUserNotFound)
		return
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		s.handleError(c, ErrEventNotFound)
		return
	}

	prediction, created, err := s.store.SubmitPrediction(userID, eventID, picks)
	if err != nil {
		s.handleError(c, err)
		return
	}

	message := "Prediction saved"
	if !created {
		message = "Prediction updated"
	}

	c.JSON(http.StatusCreated, SubmitPredictionResponse{
		Prediction: prediction,
		Message:    message,
	})
}

// HandleLeaderboard handles GET /api/leaderboard.
func (s *APIServer) HandleLeaderboard(c *gin.Context) {
	limit := DefaultLeaderboardLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil {
			limit = n
		}
	}

	entries, err := s.store.Leaderboard(limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LeaderboardResponse{Leaderboard: entries})
}
