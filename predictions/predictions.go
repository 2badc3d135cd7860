package predictions

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Nickname length bounds, counted in characters after trimming.
const (
	MinNicknameLength = 2
	MaxNicknameLength = 50
)

// Custom errors for prediction operations
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNicknameTaken   = errors.New("nickname is already taken")
	ErrInvalidNickname = fmt.Errorf("nickname must be %d to %d characters", MinNicknameLength, MaxNicknameLength)
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidStatus   = errors.New("status must be upcoming, live, or completed")
	ErrEventClosed     = errors.New("event has already started or finished")
	ErrDuplicatePick   = errors.New("the same athlete cannot be picked for more than one medal")
	ErrMissingField    = errors.New("all fields are required")
)

// EventStatus is the state of an event open for predictions.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventLive      EventStatus = "live"
	EventCompleted EventStatus = "completed"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	return s == EventUpcoming || s == EventLive || s == EventCompleted
}

// User is a participant identified by a unique nickname.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Nickname           string    `json:"nickname"`
	TotalPoints        int       `json:"total_points"`
	CorrectPredictions int       `json:"correct_predictions"`
	TotalPredictions   int       `json:"total_predictions"`
	Badges             []string  `json:"badges"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Event is a competition users can predict the podium of.
type Event struct {
	ID           uuid.UUID   `json:"id"`
	Sport        string      `json:"sport"`
	EventName    string      `json:"event_name"`
	EventDate    time.Time   `json:"event_date"`
	Venue        string      `json:"venue"`
	Status       EventStatus `json:"status"`
	ActualGold   *string     `json:"actual_gold,omitempty"`
	ActualSilver *string     `json:"actual_silver,omitempty"`
	ActualBronze *string     `json:"actual_bronze,omitempty"`
}

// Prediction is one user's podium pick for one event. A user holds at most
// one prediction per event.
type Prediction struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	EventID         uuid.UUID `json:"event_id"`
	PredictedGold   string    `json:"predicted_gold"`
	PredictedSilver string    `json:"predicted_silver"`
	PredictedBronze string    `json:"predicted_bronze"`
	PointsEarned    int       `json:"points_earned"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// LeaderboardEntry is a user's standing.
type LeaderboardEntry struct {
	ID                 uuid.UUID `json:"id"`
	Nickname           string    `json:"nickname"`
	TotalPoints        int       `json:"total_points"`
	CorrectPredictions int       `json:"correct_predictions"`
	TotalPredictions   int       `json:"total_predictions"`
	Badges             []string  `json:"badges"`
	AccuracyPercentage float64   `json:"accuracy_percentage"`
	Rank               int       `json:"rank"`
}

// Store manages users, events and predictions using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new prediction store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialize writers; SQLite allows one at a time.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL UNIQUE,
		total_points INTEGER NOT NULL DEFAULT 0,
		correct_predictions INTEGER NOT NULL DEFAULT 0,
		total_predictions INTEGER NOT NULL DEFAULT 0,
		badges TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		sport TEXT NOT NULL,
		event_name TEXT NOT NULL,
		event_date TEXT NOT NULL,
		venue TEXT NOT NULL,
		status TEXT NOT NULL,
		actual_gold TEXT,
		actual_silver TEXT,
		actual_bronze TEXT
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		event_id TEXT NOT NULL REFERENCES events(id),
		predicted_gold TEXT NOT NULL,
		predicted_silver TEXT NOT NULL,
		predicted_bronze TEXT NOT NULL,
		points_earned INTEGER NOT NULL DEFAULT 0,
		is_verified INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE (user_id, event_id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NormalizeNickname trims a nickname and checks its length.
func NormalizeNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	n := utf8.RuneCountInString(nickname)
	if n < MinNicknameLength || n > MaxNicknameLength {
		return "", ErrInvalidNickname
	}
	return nickname, nil
}

// CreateUser registers a new user with zeroed statistics.
func (s *Store) CreateUser(nickname string) (*User, error) {
	nickname, err := NormalizeNickname(nickname)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:        uuid.New(),
		Nickname:  nickname,
		Badges:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO users (id, nickname, badges, created_at, updated_at)
		VALUES (?, ?, '[]', ?, ?)
	`

	_, err = s.db.Exec(query,
		user.ID.String(),
		user.Nickname,
		formatTime(&user.CreatedAt),
		formatTime(&user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNicknameTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

const userColumns = `id, nickname, total_points, correct_predictions, total_predictions, badges, created_at, updated_at`

// GetUserByNickname retrieves a user by exact nickname.
func (s *Store) GetUserByNickname(nickname string) (*User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE nickname = ?", nickname)
	return scanUser(row)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(id uuid.UUID) (*User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id.String())
	return scanUser(row)
}

// CreateEvent adds an event that predictions can be submitted for.
func (s *Store) CreateEvent(sport, eventName string, eventDate time.Time, venue string, status EventStatus) (*Event, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	event := &Event{
		ID:        uuid.New(),
		Sport:     sport,
		EventName: eventName,
		EventDate: eventDate,
		Venue:     venue,
		Status:    status,
	}

	query := `
		INSERT INTO events (id, sport, event_name, event_date, venue, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		event.ID.String(),
		event.Sport,
		event.EventName,
		formatTime(&event.EventDate),
		event.Venue,
		string(event.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(id uuid.UUID) (*Event, error) {
	query := `
		SELECT id, sport, event_name, event_date, venue, status,
		       actual_gold, actual_silver, actual_bronze
		FROM events
		WHERE id = ?
	`

	var idStr, sport, eventName, eventDateStr, venue, status string
	var gold, silver, bronze sql.NullString

	err := s.db.QueryRow(query, id.String()).Scan(
		&idStr, &sport, &eventName, &eventDateStr, &venue, &status,
		&gold, &silver, &bronze,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	eventID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event ID: %w", err)
	}

	event := &Event{
		ID:        eventID,
		Sport:     sport,
		EventName: eventName,
		EventDate: parseTime(eventDateStr),
		Venue:     venue,
		Status:    EventStatus(status),
	}
	if gold.Valid {
		event.ActualGold = &gold.String
	}
	if silver.Valid {
		event.ActualSilver = &silver.String
	}
	if bronze.Valid {
		event.ActualBronze = &bronze.String
	}

	return event, nil
}

// Picks are the three athletes predicted for an event's podium.
type Picks struct {
	Gold   string
	Silver string
	Bronze string
}

// Validate checks that all three picks are present and distinct.
func (p Picks) Validate() error {
	if p.Gold == "" || p.Silver == "" || p.Bronze == "" {
		return ErrMissingField
	}
	if p.Gold == p.Silver || p.Gold == p.Bronze || p.Silver == p.Bronze {
		return ErrDuplicatePick
	}
	return nil
}

// SubmitPrediction records a user's picks for an upcoming event, replacing
// any earlier picks by the same user for that event. The user's prediction
// count only grows when no earlier prediction existed; created reports which
// case applied.
func (s *Store) SubmitPrediction(userID, eventID uuid.UUID, picks Picks) (prediction *Prediction, created bool, err error) {
	if err := picks.Validate(); err != nil {
		return nil, false, err
	}

	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, false, err
	}
	if _, err := s.GetUser(userID); err != nil {
		return nil, false, err
	}
	if event.Status != EventUpcoming {
		return nil, false, ErrEventClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID, createdAtStr string
	err = tx.QueryRow(
		"SELECT id, created_at FROM predictions WHERE user_id = ? AND event_id = ?",
		userID.String(), eventID.String(),
	).Scan(&existingID, &createdAtStr)

	now := time.Now()
	prediction = &Prediction{
		UserID:          userID,
		EventID:         eventID,
		PredictedGold:   picks.Gold,
		PredictedSilver: picks.Silver,
		PredictedBronze: picks.Bronze,
	}

	switch {
	case err == sql.ErrNoRows:
		created = true
		prediction.ID = uuid.New()
		prediction.CreatedAt = now

		_, err = tx.Exec(`
			INSERT INTO predictions (
				id, user_id, event_id, predicted_gold, predicted_silver,
				predicted_bronze, points_earned, is_verified, created_at
			) VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)`,
			prediction.ID.String(), userID.String(), eventID.String(),
			picks.Gold, picks.Silver, picks.Bronze, formatTime(&now),
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to insert prediction: %w", err)
		}

		_, err = tx.Exec(
			"UPDATE users SET total_predictions = total_predictions + 1, updated_at = ? WHERE id = ?",
			formatTime(&now), userID.String(),
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to update prediction count: %w", err)
		}
	case err != nil:
		return nil, false, fmt.Errorf("failed to query prediction: %w", err)
	default:
		prediction.ID, err = uuid.Parse(existingID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse prediction ID: %w", err)
		}
		prediction.CreatedAt = parseTime(createdAtStr)

		_, err = tx.Exec(`
			UPDATE predictions
			SET predicted_gold = ?, predicted_silver = ?, predicted_bronze = ?,
			    points_earned = 0, is_verified = 0
			WHERE id = ?`,
			picks.Gold, picks.Silver, picks.Bronze, existingID,
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to update prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit prediction: %w", err)
	}

	return prediction, created, nil
}

// Leaderboard limits.
const (
	DefaultLeaderboardLimit = 100
	MaxLeaderboardLimit     = 1000
)

// Leaderboard returns up to limit users ordered by points, then correct
// predictions, then nickname. Ranks start at 1.
func (s *Store) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	query := "SELECT " + userColumns + ` FROM users
		ORDER BY total_points DESC, correct_predictions DESC, nickname ASC
		LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, LeaderboardEntry{
			ID:                 user.ID,
			Nickname:           user.Nickname,
			TotalPoints:        user.TotalPoints,
			CorrectPredictions: user.CorrectPredictions,
			TotalPredictions:   user.TotalPredictions,
			Badges:             user.Badges,
			AccuracyPercentage: Accuracy(user.CorrectPredictions, user.TotalPredictions),
			Rank:               len(entries) + 1,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return entries, nil
}

// Accuracy is the share of correct predictions as a percentage rounded to
// one decimal place. It is zero when there are no predictions.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var idStr, nickname, badgesJSON, createdAtStr, updatedAtStr string
	var totalPoints, correct, total int

	err := row.Scan(&idStr, &nickname, &totalPoints, &correct, &total, &badgesJSON, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	badges := []string{}
	if err := json.Unmarshal([]byte(badgesJSON), &badges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal badges: %w", err)
	}

	return &User{
		ID:                 id,
		Nickname:           nickname,
		TotalPoints:        totalPoints,
		CorrectPredictions: correct,
		TotalPredictions:   total,
		Badges:             badges,
		CreatedAt:          parseTime(createdAtStr),
		UpdatedAt:          parseTime(updatedAtStr),
	}, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "unique constraint")
}

// Helper functions for time formatting
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
