package models

import (
	"time"
)

// Badge is a named achievement derived from a user's report history. Badges
// are recomputed from the current report set on every scoring pass — they are
// never stored as the source of truth.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// BadgeAward records the first time a user was seen holding a badge, so
// earnedAt stays stable across recomputes instead of drifting to "now" on
// every pass.
type BadgeAward struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_badge_award_user_badge;not null" json:"user_id"`
	BadgeID   string    `gorm:"uniqueIndex:idx_badge_award_user_badge;not null" json:"badge_id"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

// Badge definitions. Thresholds are fixed design constants; all are evaluated
// independently, so a user can hold any subset.
var (
	BadgeFirstReport = Badge{
		ID:          "first_report",
		Name:        "First Reporter",
		Description: "Submitted your first civic issue report",
		Icon:        "🎯",
	}
	BadgeFiveReports = Badge{
		ID:          "five_reports",
		Name:        "Active Citizen",
		Description: "Submitted 5 civic issue reports",
		Icon:        "🏆",
	}
	BadgeTenReports = Badge{
		ID:          "ten_reports",
		Name:        "Community Champion",
		Description: "Submitted 10 civic issue reports",
		Icon:        "⭐",
	}
	BadgePhotoReporter = Badge{
		ID:          "photo_reporter",
		Name:        "Visual Reporter",
		Description: "Submitted 5 reports with photos",
		Icon:        "📸",
	}
	BadgeVideoReporter = Badge{
		ID:          "video_reporter",
		Name:        "Video Journalist",
		Description: "Submitted 3 reports with videos",
		Icon:        "🎥",
	}
)
