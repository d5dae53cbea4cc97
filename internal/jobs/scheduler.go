// Package jobs runs the scheduled background work: the periodic member
// status reconciliation and the yearly stamp inventory archival.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/application/orchestrators"
)

// Scheduler wires the orchestrators onto a cron timetable.
type Scheduler struct {
	cron   *cron.Cron
	stores *web.Stores
}

// NewScheduler builds a scheduler over the given stores. Jobs run in UTC
// so the reconciliation cutoff math matches the stored timestamps.
func NewScheduler(stores *web.Stores) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		stores: stores,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) {
	// Status reconciliation twice a day. The run is idempotent, so
	// overlapping manual runs from the admin endpoint are harmless.
	s.cron.AddFunc("0 */12 * * *", func() {
		result := orchestrators.ExecuteSyncMemberStatuses(ctx, orchestrators.SyncMemberStatusesInput{
			ActorID: "scheduler",
		}, orchestrators.SyncMemberStatusesDeps{
			MemberStore:   s.stores.MemberStore,
			PeriodStore:   s.stores.PeriodStore,
			SettingsStore: s.stores.SettingsStore,
			AuditStore:    s.stores.AuditStore,
			Now:           time.Now,
			GenerateID:    uuid.NewString,
		})
		if !result.Success {
			slog.Error("scheduled_job_failed", "job", "sync_member_statuses", "message", result.Message)
			return
		}
		slog.Info("scheduled_job_done", "job", "sync_member_statuses",
			"updated", result.UpdatedCount, "inactive_updated", result.InactiveUpdatedCount)
	})

	// Stamp archival daily at 02:00. Only past-year inventories are
	// touched, so outside the turn of the year this is a no-op.
	s.cron.AddFunc("0 2 * * *", func() {
		archived, err := orchestrators.ExecuteArchiveStamps(ctx, orchestrators.ArchiveStampsDeps{
			StampStore: s.stores.StampStore,
			AuditStore: s.stores.AuditStore,
			Now:        time.Now,
			GenerateID: uuid.NewString,
		})
		if err != nil {
			slog.Error("scheduled_job_failed", "job", "archive_stamps", "error", err)
			return
		}
		if archived > 0 {
			slog.Info("scheduled_job_done", "job", "archive_stamps", "archived", archived)
		}
	})

	s.cron.Start()
	slog.Info("scheduler_started", "jobs", 2, "timezone", "UTC")
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler_stopped")
}
