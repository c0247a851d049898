// workers/directory_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mathi030307/people-eye-client/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RemoteDirectoryUser matches the JSON the user directory service returns.
type RemoteDirectoryUser struct {
	ID           string    `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type directoryChangesResponse struct {
	Users []RemoteDirectoryUser `json:"users"`
}

// DirectorySyncWorker mirrors the remote user directory into the local
// directory_users table so leaderboard name resolution never needs a network
// round trip.
type DirectorySyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	httpClient   *http.Client
}

func NewDirectorySyncWorker(db *gorm.DB, directoryBaseURL, endpointPath string) *DirectorySyncWorker {
	return &DirectorySyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      directoryBaseURL,
		endpointPath: endpointPath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *DirectorySyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Directory Sync Worker (user directory → directory_users)…")
	go w.run(ctx)
}

func (w *DirectorySyncWorker) run(ctx context.Context) {
	// Initial sync backfills from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial directory sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Directory sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Directory Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt in the local mirror.
func (w *DirectorySyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM directory_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

func (w *DirectorySyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid directory base URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create directory request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to user directory failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("user directory non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response directoryChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode directory response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	log.Printf("[DIR-SYNC] 📥 Processing %d user(s) from directory…", len(response.Users))

	var upsertCount, errorCount int
	for _, remoteUser := range response.Users {
		localUser := models.DirectoryUser{
			ExternalUserID: remoteUser.ID,
			FullName:       remoteUser.FullName,
			Email:          remoteUser.Email,
			MobileNumber:   remoteUser.MobileNumber,
			CreatedAt:      remoteUser.CreatedAt,
			UpdatedAt:      remoteUser.UpdatedAt,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "email", "mobile_number", "created_at", "updated_at",
			}),
		}).Create(&localUser).Error; err != nil {
			errorCount++
			log.Printf("[DIR-SYNC] ⚠️ Failed to upsert directory_user (id=%q, name=%q): %v",
				remoteUser.ID, remoteUser.FullName, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[DIR-SYNC] ✅ Synced %d user(s) (%d upserted, %d errors)", len(response.Users), upsertCount, errorCount)
	return nil
}
