package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/mrlokans/watchlist/internal/entities"
)

// ValidateDocument parses an import document without touching storage and
// reports what ImportAll would import and skip.
func ValidateDocument(document []byte) (ImportResult, error) {
	_, result, err := parseDocument(document, time.Now().UTC())
	return result, err
}

// parseDocument decodes an import document of the form {users: [...], movies: [...]}.
//
// Both fields must be present JSON arrays, otherwise a validation error is
// returned. Items inside the arrays are decoded leniently: an item missing a
// required field is skipped and counted in the result instead of failing
// the import.
func parseDocument(raw []byte, now time.Time) (*entities.Snapshot, ImportResult, error) {
	var result ImportResult

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, result, entities.NewValidationError("document", "must be a JSON object")
	}

	userItems, err := decodeArray(top, "users")
	if err != nil {
		return nil, result, err
	}
	movieItems, err := decodeArray(top, "movies")
	if err != nil {
		return nil, result, err
	}

	snap := &entities.Snapshot{
		Users:  make([]entities.User, 0, len(userItems)),
		Movies: make([]entities.Movie, 0, len(movieItems)),
	}

	for _, item := range userItems {
		user, ok := parseUser(item)
		if !ok {
			result.UsersSkipped++
			continue
		}
		snap.Users = append(snap.Users, user)
	}

	for _, item := range movieItems {
		movie, ok := parseMovie(item, now)
		if !ok {
			result.MoviesSkipped++
			continue
		}
		snap.Movies = append(snap.Movies, movie)
	}

	result.UsersImported = len(snap.Users)
	result.MoviesImported = len(snap.Movies)
	return snap, result, nil
}

func decodeArray(top map[string]json.RawMessage, field string) ([]json.RawMessage, error) {
	raw, ok := top[field]
	if !ok {
		return nil, entities.NewValidationError(field, "is required")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, entities.NewValidationError(field, "must be an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, entities.NewValidationError(field, "must be an array")
	}
	return items, nil
}

func parseUser(item json.RawMessage) (entities.User, bool) {
	fields, ok := decodeObject(item)
	if !ok {
		return entities.User{}, false
	}

	id, ok := decodeID(fields["id"])
	if !ok {
		return entities.User{}, false
	}
	name, ok := decodeString(fields["name"])
	if !ok {
		return entities.User{}, false
	}

	return entities.User{ID: id, Name: name}, true
}

func parseMovie(item json.RawMessage, now time.Time) (entities.Movie, bool) {
	fields, ok := decodeObject(item)
	if !ok {
		return entities.Movie{}, false
	}

	userID, ok := decodeID(fields["user_id"])
	if !ok {
		return entities.Movie{}, false
	}
	externalID, ok := decodeExternalID(fields["external_id"])
	if !ok {
		return entities.Movie{}, false
	}
	title, ok := decodeString(fields["title"])
	if !ok || strings.TrimSpace(title) == "" {
		return entities.Movie{}, false
	}

	movie := entities.Movie{
		UserID:     userID,
		ExternalID: externalID,
		Title:      title,
		AddedAt:    now,
	}

	// Ids are kept so that re-importing an export is a no-op. A present but
	// malformed id makes the row malformed.
	if raw, present := fields["id"]; present && !isNull(raw) {
		id, ok := decodeID(raw)
		if !ok {
			return entities.Movie{}, false
		}
		movie.ID = id
	}

	if poster, ok := decodeString(fields["poster_url"]); ok && strings.TrimSpace(poster) != "" {
		movie.PosterURL = &poster
	}
	if category, ok := decodeString(fields["category"]); ok && strings.TrimSpace(category) != "" {
		movie.Category = &category
	}
	if year, ok := decodeInt(fields["year"]); ok {
		movie.Year = &year
	}
	if addedAt, ok := decodeString(fields["added_at"]); ok {
		// Stored as UTC: sqlite orders added_at as text, so mixed offsets
		// would sort out of time order.
		if t, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
			movie.AddedAt = t.UTC()
		}
	}

	return movie, true
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// decodeID accepts a positive JSON integer.
func decodeID(raw json.RawMessage) (uint, bool) {
	n, ok := decodeInt(raw)
	if !ok || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

func decodeInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// decodeString accepts a JSON string; null and other types are rejected.
func decodeString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeExternalID accepts a non-blank string or a number. TVMaze ids are
// integers and older exports may carry them unquoted.
func decodeExternalID(raw json.RawMessage) (string, bool) {
	if s, ok := decodeString(raw); ok {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
