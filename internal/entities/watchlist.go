package entities

import (
	"strings"
	"time"
)

// CategoryManual tags hand-entered titles. Provider categories are stored as returned.
const CategoryManual = "manual"

// ManualExternalIDPrefix marks identifiers generated for manual entries.
// Provider identifiers (TVMaze integers, IMDb "tt" ids) never contain a colon.
const ManualExternalIDPrefix = "manual:"

type User struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (User) TableName() string {
	return "users"
}

// Movie is a watched title. (UserID, ExternalID) is unique.
type Movie struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_movies_user_external,priority:1" json:"user_id"`
	ExternalID string    `gorm:"type:text;not null;uniqueIndex:idx_movies_user_external,priority:2" json:"external_id"`
	Title      string    `gorm:"size:512;not null" json:"title"`
	PosterURL  *string   `gorm:"size:2048" json:"poster_url"`
	Year       *int      `json:"year"`
	Category   *string   `gorm:"size:64" json:"category"`
	AddedAt    time.Time `gorm:"not null;index" json:"added_at"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (Movie) TableName() string {
	return "movies"
}

// IsManualExternalID reports whether id was generated for a hand-entered title.
func IsManualExternalID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), ManualExternalIDPrefix)
}

// MovieCandidate is the caller-supplied part of a movie. ID, UserID and
// AddedAt are always assigned by the store.
type MovieCandidate struct {
	ExternalID string  `json:"external_id"`
	Title      string  `json:"title"`
	PosterURL  *string `json:"poster_url,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Category   *string `json:"category,omitempty"`
}

// Snapshot is the portable {users, movies} document used for backup and restore.
type Snapshot struct {
	Users  []User  `json:"users"`
	Movies []Movie `json:"movies"`
}
