package services

import (
	"sort"
	"time"

	"github.com/mathi030307/people-eye-client/models"

	"gorm.io/gorm"
)

// Impact point weights. A report can earn several media bonuses at once (a
// report with both a photo and a video gets both).
const (
	PointsPerReport   = 10
	PointsPerResolved = 25
	PointsPerPhoto    = 5
	PointsPerVideo    = 10
	PointsPerAudio    = 5

	PointsPerLevel = 100
)

// Badge thresholds
const (
	FirstReportThreshold       = 1
	ActiveCitizenThreshold     = 5
	CommunityChampionThreshold = 10
	VisualReporterThreshold    = 5 // reports with photos
	VideoJournalistThreshold   = 3 // reports with videos
)

// NameResolver maps a user id to a display name. Returning false falls back
// to the "Unknown User" sentinel.
type NameResolver func(userID string) (string, bool)

const UnknownUserName = "Unknown User"

// ComputeUserScore derives a user's score from the given report corpus. It is
// a pure function of its inputs: no counters are kept anywhere, so re-running
// it over the same snapshot always yields the same result. Rank is left 0;
// only a full leaderboard computation can assign it.
func ComputeUserScore(userID string, allReports []models.Report, resolve NameResolver) models.UserScore {
	var (
		total, resolved        int
		withImages, withVideos int
		withAudio              int
	)
	for i := range allReports {
		r := &allReports[i]
		if r.UserID != userID {
			continue
		}
		total++
		if r.Status == models.StatusResolved {
			resolved++
		}
		if r.HasImages() {
			withImages++
		}
		if r.HasVideos() {
			withVideos++
		}
		if r.HasAudioNotes() {
			withAudio++
		}
	}

	points := total*PointsPerReport +
		resolved*PointsPerResolved +
		withImages*PointsPerPhoto +
		withVideos*PointsPerVideo +
		withAudio*PointsPerAudio

	name := UnknownUserName
	if resolve != nil {
		if n, ok := resolve(userID); ok {
			name = n
		}
	}

	return models.UserScore{
		UserID:          userID,
		UserName:        name,
		TotalReports:    total,
		ResolvedReports: resolved,
		ImpactPoints:    points,
		Level:           points/PointsPerLevel + 1,
		Badges:          earnedBadges(total, withImages, withVideos),
		Rank:            0,
	}
}

// earnedBadges evaluates every threshold independently; badges are never
// mutually exclusive. EarnedAt is stamped at compute time here — the scoring
// service replaces it with the ledgered first-award time where one exists.
func earnedBadges(total, withImages, withVideos int) []models.Badge {
	now := time.Now()
	badges := []models.Badge{}

	award := func(b models.Badge) {
		b.EarnedAt = now
		badges = append(badges, b)
	}

	if total >= FirstReportThreshold {
		award(models.BadgeFirstReport)
	}
	if total >= ActiveCitizenThreshold {
		award(models.BadgeFiveReports)
	}
	if total >= CommunityChampionThreshold {
		award(models.BadgeTenReports)
	}
	if withImages >= VisualReporterThreshold {
		award(models.BadgePhotoReporter)
	}
	if withVideos >= VideoJournalistThreshold {
		award(models.BadgeVideoReporter)
	}
	return badges
}

// BuildLeaderboard ranks every user appearing in the corpus by descending
// impact points. Ties break by descending total reports, then ascending user
// id, so equal scores still get distinct, reproducible ranks. Users with zero
// reports never appear.
func BuildLeaderboard(allReports []models.Report, resolve NameResolver) []models.LeaderboardEntry {
	seen := map[string]bool{}
	var userIDs []string
	for i := range allReports {
		id := allReports[i].UserID
		if !seen[id] {
			seen[id] = true
			userIDs = append(userIDs, id)
		}
	}

	scores := make([]models.UserScore, 0, len(userIDs))
	for _, id := range userIDs {
		scores = append(scores, ComputeUserScore(id, allReports, resolve))
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.ImpactPoints != b.ImpactPoints {
			return a.ImpactPoints > b.ImpactPoints
		}
		if a.TotalReports != b.TotalReports {
			return a.TotalReports > b.TotalReports
		}
		return a.UserID < b.UserID
	})

	entries := make([]models.LeaderboardEntry, len(scores))
	for i, s := range scores {
		entries[i] = models.LeaderboardEntry{
			UserID:       s.UserID,
			UserName:     s.UserName,
			ImpactPoints: s.ImpactPoints,
			Level:        s.Level,
			Rank:         i + 1,
			Badges:       s.Badges,
		}
	}
	return entries
}

// RankFor scans a leaderboard for the given user. A user with zero reports
// has no row and ranks 0.
func RankFor(entries []models.LeaderboardEntry, userID string) int {
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank
		}
	}
	return 0
}

// ScoringService computes scores over the mirrored report corpus and keeps
// the badge-award ledger.
type ScoringService struct {
	DB *gorm.DB
}

func NewScoringService(db *gorm.DB) *ScoringService {
	return &ScoringService{DB: db}
}

// resolver builds a NameResolver over the directory mirror.
func (s *ScoringService) resolver() NameResolver {
	return func(userID string) (string, bool) {
		var u models.DirectoryUser
		err := s.DB.Where("external_user_id = ?", userID).First(&u).Error
		if err != nil {
			return "", false
		}
		return u.FullName, true
	}
}

func (s *ScoringService) allReports() ([]models.Report, error) {
	var reports []models.Report
	if err := s.DB.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// UserScore computes the acting user's score, with rank resolved against a
// fresh leaderboard over the same snapshot.
func (s *ScoringService) UserScore(userID string) (models.UserScore, error) {
	reports, err := s.allReports()
	if err != nil {
		return models.UserScore{}, err
	}

	score := ComputeUserScore(userID, reports, s.resolver())
	score.Badges = s.stampBadges(userID, score.Badges)
	score.Rank = RankFor(BuildLeaderboard(reports, s.resolver()), userID)
	return score, nil
}

// Leaderboard recomputes the full ranked table from the mirror.
func (s *ScoringService) Leaderboard() ([]models.LeaderboardEntry, error) {
	reports, err := s.allReports()
	if err != nil {
		return nil, err
	}

	entries := BuildLeaderboard(reports, s.resolver())
	for i := range entries {
		entries[i].Badges = s.stampBadges(entries[i].UserID, entries[i].Badges)
	}
	return entries, nil
}

// UserBadges returns the user's current badge set with ledgered timestamps.
func (s *ScoringService) UserBadges(userID string) ([]models.Badge, error) {
	score, err := s.UserScore(userID)
	if err != nil {
		return nil, err
	}
	return score.Badges, nil
}

// stampBadges replaces compute-time earnedAt values with the first-award time
// from the ledger, creating ledger rows for badges seen for the first time.
// The badge set itself stays a pure function of the report corpus — losing a
// report can retract a badge even though its ledger row remains.
func (s *ScoringService) stampBadges(userID string, badges []models.Badge) []models.Badge {
	for i := range badges {
		var award models.BadgeAward
		err := s.DB.Where("user_id = ? AND badge_id = ?", userID, badges[i].ID).First(&award).Error
		if err == gorm.ErrRecordNotFound {
			award = models.BadgeAward{
				UserID:    userID,
				BadgeID:   badges[i].ID,
				AwardedAt: badges[i].EarnedAt,
			}
			if createErr := s.DB.Create(&award).Error; createErr != nil {
				continue // keep the compute-time stamp
			}
		} else if err != nil {
			continue
		}
		badges[i].EarnedAt = award.AwardedAt
	}
	return badges
}
