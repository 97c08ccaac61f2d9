package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type MovieStatus string

const (
	StatusLocked       MovieStatus = "LOCKED"
	StatusPublished    MovieStatus = "PUBLISHED"
	StatusRatingPeriod MovieStatus = "RATING_PERIOD"
	StatusCompleted    MovieStatus = "COMPLETED"
)

// ActiveStatuses is the set of statuses that make a movie "the current
// pick". A group may hold at most one movie in this set.
var ActiveStatuses = []MovieStatus{StatusLocked, StatusPublished, StatusRatingPeriod}

func (s MovieStatus) Valid() bool {
	switch s {
	case StatusLocked, StatusPublished, StatusRatingPeriod, StatusCompleted:
		return true
	}
	return false
}

func (s MovieStatus) Active() bool {
	switch s {
	case StatusLocked, StatusPublished, StatusRatingPeriod:
		return true
	}
	return false
}

// Rateable reports whether ratings may be submitted in this status.
// LOCKED is deliberately included: early watchers may rate before the
// announcement goes out, and the reveal gate keeps values hidden anyway.
func (s MovieStatus) Rateable() bool {
	return s.Active()
}

// Movie is a group's pick. TMDB metadata is snapshotted at selection
// time and never refreshed.
type Movie struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID uint `gorm:"not null;index" json:"group_id"`

	TMDBID       int64   `gorm:"not null" json:"tmdb_id"`
	Title        string  `gorm:"not null" json:"title"`
	Overview     string  `gorm:"type:text" json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`

	// WatchProviders is a best-effort JSON snapshot from TMDB; nil when
	// the provider lookup failed or returned nothing for the region.
	WatchProviders *string `gorm:"type:text" json:"-"`

	SelectedByUserID uint   `gorm:"not null" json:"selected_by_user_id"`
	SelectedByName   string `json:"selected_by_name"`

	Status         MovieStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	LockedAt       *time.Time  `json:"locked_at"`
	PublishedAt    *time.Time  `json:"published_at"`
	RatingRevealAt *time.Time  `json:"rating_reveal_at"`

	Ratings []Rating `gorm:"foreignKey:MovieID" json:"-"`
}

// Rating is one member's score for one movie, unique per (movie, user).
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MovieID uint    `gorm:"not null;uniqueIndex:idx_rating_movie_user" json:"movie_id"`
	UserID  uint    `gorm:"not null;uniqueIndex:idx_rating_movie_user" json:"user_id"`
	Rating  float64 `gorm:"not null" json:"rating"`
	Review  *string `gorm:"type:text" json:"review"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type MovieResponse struct {
	ID             uint            `json:"id"`
	GroupID        uint            `json:"group_id"`
	TMDBID         int64           `json:"tmdb_id"`
	Title          string          `json:"title"`
	Overview       string          `json:"overview"`
	PosterPath     string          `json:"poster_path"`
	BackdropPath   string          `json:"backdrop_path"`
	ReleaseDate    string          `json:"release_date"`
	VoteAverage    float64         `json:"vote_average"`
	WatchProviders json.RawMessage `json:"watch_providers,omitempty"`
	SelectedByName string          `json:"selected_by_name"`
	Status         MovieStatus     `json:"status"`
	LockedAt       *time.Time      `json:"locked_at"`
	PublishedAt    *time.Time      `json:"published_at"`
	RatingRevealAt *time.Time      `json:"rating_reveal_at"`
}

func (m *Movie) ToResponse() MovieResponse {
	resp := MovieResponse{
		ID:             m.ID,
		GroupID:        m.GroupID,
		TMDBID:         m.TMDBID,
		Title:          m.Title,
		Overview:       m.Overview,
		PosterPath:     m.PosterPath,
		BackdropPath:   m.BackdropPath,
		ReleaseDate:    m.ReleaseDate,
		VoteAverage:    m.VoteAverage,
		SelectedByName: m.SelectedByName,
		Status:         m.Status,
		LockedAt:       m.LockedAt,
		PublishedAt:    m.PublishedAt,
		RatingRevealAt: m.RatingRevealAt,
	}
	if m.WatchProviders != nil {
		resp.WatchProviders = json.RawMessage(*m.WatchProviders)
	}
	return resp
}

type RatingResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    float64   `json:"rating"`
	Review    *string   `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) ToResponse() RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.User.DisplayName(),
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
