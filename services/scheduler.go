// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRelayScheduler runs the periodic jobs: the connectivity probe and the
// deferred drain trigger. The probe drives the Offline→Online edge, which
// fires an immediate drain through the monitor callback; the scheduled drain
// below additionally picks up entries whose backoff has elapsed while the
// store stayed online.
func StartRelayScheduler(monitor *ConnectivityMonitor, queue *OfflineQueue) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() {
			monitor.Probe(context.Background())
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if !monitor.Online() {
				return
			}
			n, err := queue.Drain(context.Background())
			if err != nil {
				log.Printf("[Scheduler] drain error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ Drained %d queued report(s)", n)
			}
		}),
	)
}
