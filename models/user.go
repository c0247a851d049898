package models

import (
	"time"

	"gorm.io/gorm"
)

// DirectoryUser is a local snapshot of user data from the remote user
// directory. Owned solely by this relay; populated via the directory sync
// worker. The leaderboard resolves display names from this table.
type DirectoryUser struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex;not null" json:"external_user_id"` // the directory service's id
	FullName       string    `gorm:"index;not null" json:"fullName"`
	Email          string    `gorm:"index" json:"email,omitempty"`
	MobileNumber   string    `json:"mobileNumber,omitempty"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Session is the last authenticated user, persisted so a restarted relay
// resumes with the same acting identity.
type Session struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
