package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mathi030307/people-eye-client/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueStore is the durable mapping of queued reports, keyed by local id.
type QueueStore interface {
	Append(q *models.QueuedReport) error
	Update(q *models.QueuedReport) error
	Remove(localID string) error
	Due(now time.Time) ([]models.QueuedReport, error)
	Entries() ([]models.QueuedReport, error)
	Len() (int64, error)
}

// GormQueueStore persists queued reports in the relay's database.
type GormQueueStore struct {
	DB *gorm.DB
}

func NewGormQueueStore(db *gorm.DB) *GormQueueStore {
	return &GormQueueStore{DB: db}
}

func (s *GormQueueStore) Append(q *models.QueuedReport) error {
	return s.DB.Create(q).Error
}

func (s *GormQueueStore) Update(q *models.QueuedReport) error {
	return s.DB.Save(q).Error
}

func (s *GormQueueStore) Remove(localID string) error {
	return s.DB.Delete(&models.QueuedReport{}, "local_id = ?", localID).Error
}

func (s *GormQueueStore) Due(now time.Time) ([]models.QueuedReport, error) {
	var entries []models.QueuedReport
	err := s.DB.Where("next_attempt_at <= ?", now).
		Order("enqueued_at ASC").
		Find(&entries).Error
	return entries, err
}

func (s *GormQueueStore) Entries() ([]models.QueuedReport, error) {
	var entries []models.QueuedReport
	err := s.DB.Order("enqueued_at ASC").Find(&entries).Error
	return entries, err
}

func (s *GormQueueStore) Len() (int64, error) {
	var count int64
	err := s.DB.Model(&models.QueuedReport{}).Count(&count).Error
	return count, err
}

// DeliverFunc attempts to deliver one queued report to the report store.
type DeliverFunc func(ctx context.Context, q models.QueuedReport) error

// Retry backoff: 30s doubling per attempt, capped at an hour. Keeps a flaky
// store from being hammered on every drain trigger.
const (
	backoffBase = 30 * time.Second
	backoffCap  = 1 * time.Hour
)

// OfflineQueue holds report submissions made while the store is unreachable
// and replays them when connectivity returns. Delivery is at-least-once: if a
// success response is lost after the store persisted the report, the entry is
// retried and the store sees a duplicate. The store treats submissions as
// idempotent, so this is accepted rather than papered over.
type OfflineQueue struct {
	store   QueueStore
	deliver DeliverFunc

	// One drain in flight at a time. Enqueue during a drain is safe: rows are
	// appended atomically, never read-modify-written as a shared blob.
	drainMu sync.Mutex

	// Called after a confirmed delivery, before the row is gone. Used to
	// clean up spooled media.
	OnDelivered func(q models.QueuedReport)
}

func NewOfflineQueue(store QueueStore, deliver DeliverFunc) *OfflineQueue {
	return &OfflineQueue{store: store, deliver: deliver}
}

// Enqueue stamps the payload with a generated local id (unless the caller
// already spooled media under one) and the enqueue time and persists it. The
// entry becomes due immediately.
func (q *OfflineQueue) Enqueue(entry models.QueuedReport) (string, error) {
	if entry.LocalID == "" {
		entry.LocalID = uuid.NewString()
	}
	now := time.Now()
	entry.EnqueuedAt = now
	entry.NextAttemptAt = now
	entry.Attempts = 0

	if err := q.store.Append(&entry); err != nil {
		return "", fmt.Errorf("failed to persist queued report: %w", err)
	}
	log.Printf("[QUEUE] enqueued report %q as %s", entry.Title, entry.LocalID)
	return entry.LocalID, nil
}

// Drain attempts delivery of every due entry. Failures are non-fatal: the
// entry stays queued with its next attempt pushed out by backoff. Returns the
// number of confirmed deliveries. A second Drain arriving while one runs
// returns immediately with zero.
func (q *OfflineQueue) Drain(ctx context.Context) (int, error) {
	if !q.drainMu.TryLock() {
		return 0, nil
	}
	defer q.drainMu.Unlock()

	due, err := q.store.Due(time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to load queued reports: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	log.Printf("[QUEUE] draining %d queued report(s)...", len(due))

	delivered := 0
	for _, entry := range due {
		if ctx.Err() != nil {
			break
		}

		if err := q.deliver(ctx, entry); err != nil {
			entry.Attempts++
			entry.NextAttemptAt = time.Now().Add(backoffDelay(entry.Attempts))
			entry.LastError = err.Error()
			if updateErr := q.store.Update(&entry); updateErr != nil {
				log.Printf("[QUEUE] failed to record attempt for %s: %v", entry.LocalID, updateErr)
			}
			log.Printf("[QUEUE] delivery of %s failed (attempt %d): %v", entry.LocalID, entry.Attempts, err)
			continue
		}

		if q.OnDelivered != nil {
			q.OnDelivered(entry)
		}
		if err := q.store.Remove(entry.LocalID); err != nil {
			// The store has the report but we still hold the row; it will be
			// retried and deduplicated server-side.
			log.Printf("[QUEUE] delivered %s but failed to remove it: %v", entry.LocalID, err)
			continue
		}
		delivered++
		log.Printf("[QUEUE] delivered queued report %s", entry.LocalID)
	}

	return delivered, nil
}

func (q *OfflineQueue) Len() (int64, error) {
	return q.store.Len()
}

func (q *OfflineQueue) Entries() ([]models.QueuedReport, error) {
	return q.store.Entries()
}

func backoffDelay(attempts int) time.Duration {
	delay := backoffBase
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= backoffCap {
			return backoffCap
		}
	}
	if delay > backoffCap {
		return backoffCap
	}
	return delay
}
