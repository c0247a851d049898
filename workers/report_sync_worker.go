package workers

import (
	"context"
	"log"
	"time"

	"github.com/mathi030307/people-eye-client/models"
	"github.com/mathi030307/people-eye-client/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportSyncClient pulls each known user's report history from the report
// store and mirrors it locally. Scoring and the leaderboard always recompute
// from this mirror — the authoritative list — never from incremental
// counters.
type ReportSyncClient struct {
	DB      *gorm.DB
	Store   *services.ReportStoreClient
	Monitor *services.ConnectivityMonitor
}

func NewReportSyncClient(db *gorm.DB, store *services.ReportStoreClient, monitor *services.ConnectivityMonitor) *ReportSyncClient {
	return &ReportSyncClient{DB: db, Store: store, Monitor: monitor}
}

// SyncOnce refreshes the mirror for every directory user. The store's read
// interface is keyed by email, so the directory mirror doubles as the list of
// users worth asking about.
func (c *ReportSyncClient) SyncOnce(ctx context.Context) error {
	var users []models.DirectoryUser
	if err := c.DB.Find(&users).Error; err != nil {
		return err
	}

	var synced, failed int
	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		if user.Email == "" {
			continue
		}

		reports, err := c.Store.FetchUserReports(ctx, user.Email)
		if err != nil {
			failed++
			c.Monitor.MarkOffline()
			log.Printf("[REPORT-SYNC] ⚠️ Failed to fetch reports for %s: %v", user.Email, err)
			continue
		}
		c.Monitor.MarkOnline()

		for i := range reports {
			// The store owns userName resolution too loosely to trust here;
			// keep the mirror keyed to the directory identity.
			if reports[i].UserID == "" {
				reports[i].UserID = user.ExternalUserID
			}
		}

		if len(reports) == 0 {
			continue
		}

		if err := c.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "user_name", "title", "description", "category",
				"location", "images", "videos", "audio_notes", "status", "created_at",
			}),
		}).Create(&reports).Error; err != nil {
			failed++
			log.Printf("[REPORT-SYNC] ❌ Failed to upsert %d report(s) for %s: %v", len(reports), user.Email, err)
			continue
		}
		synced += len(reports)
	}

	if synced > 0 || failed > 0 {
		log.Printf("[REPORT-SYNC] ✅ Mirrored %d report(s), %d fetch failure(s)", synced, failed)
	}
	return nil
}

// PollReports refreshes the report mirror on a fixed cadence until the
// context is cancelled.
func PollReports(ctx context.Context, client *ReportSyncClient, pollInterval time.Duration) {
	log.Println("Starting report mirror polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Prime the mirror once at startup rather than waiting a full interval.
	if err := client.SyncOnce(ctx); err != nil {
		log.Printf("❌ Initial report sync failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Report mirror polling stopped.")
			return
		case <-ticker.C:
			if err := client.SyncOnce(ctx); err != nil {
				log.Printf("❌ Error syncing reports: %v", err)
			}
		}
	}
}
