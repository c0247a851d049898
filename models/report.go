package models

import (
	"time"
)

// Report statuses as the report store emits them. The relay never changes a
// status itself — it only mirrors what the store says.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// Coordinates is the optional geo position attached to a report.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Report is a local snapshot of a report record owned by the remote report
// store. Populated via the report sync worker; read by the scoring engine.
type Report struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	UserID      string       `gorm:"index;not null" json:"userId"`
	UserName    string       `json:"userName,omitempty"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `gorm:"index" json:"category"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `gorm:"embedded;embeddedPrefix:coord_" json:"coordinates,omitempty"`
	Images      StringList   `gorm:"type:jsonb" json:"images"`
	Videos      StringList   `gorm:"type:jsonb" json:"videos"`
	AudioNotes  StringList   `gorm:"type:jsonb" json:"audioNotes"`
	Status      string       `gorm:"type:varchar(16);default:'New'" json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`

	// Mirror bookkeeping, never sent back out
	SyncedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (r *Report) HasImages() bool     { return len(r.Images) > 0 }
func (r *Report) HasVideos() bool     { return len(r.Videos) > 0 }
func (r *Report) HasAudioNotes() bool { return len(r.AudioNotes) > 0 }

// QueuedReport is a report submission accepted while the report store was
// unreachable. Media parts are spooled to local disk so the entry survives a
// restart; the row is deleted only after the store confirms delivery.
type QueuedReport struct {
	LocalID     string     `gorm:"primaryKey;type:uuid" json:"localId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	GeoLocation string     `gorm:"type:text" json:"geoLocation"` // raw JSON as submitted
	UserEmail   string     `gorm:"index;not null" json:"userEmail"`
	UserName    string     `json:"username"`
	ImagePaths  StringList `gorm:"type:jsonb" json:"-"`
	VideoPaths  StringList `gorm:"type:jsonb" json:"-"`
	AudioPaths  StringList `gorm:"type:jsonb" json:"-"`
	EnqueuedAt  time.Time  `gorm:"autoCreateTime" json:"enqueuedAt"`

	// Delivery bookkeeping (at-least-once: a row may be retried after a lost
	// success response, so the store must treat submissions as idempotent)
	Attempts      int       `gorm:"default:0" json:"attempts"`
	NextAttemptAt time.Time `gorm:"index" json:"nextAttemptAt"`
	LastError     string    `gorm:"type:text" json:"lastError,omitempty"`
}
