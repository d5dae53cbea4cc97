package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/stamp"
)

// StampStoreForArchive defines the store interface needed by the archival job.
type StampStoreForArchive interface {
	ListUnarchivedBefore(ctx context.Context, year int) ([]stamp.Inventory, error)
	Save(ctx context.Context, inv stamp.Inventory) error
}

// ArchiveStampsDeps holds dependencies for ArchiveStamps.
type ArchiveStampsDeps struct {
	StampStore StampStoreForArchive
	AuditStore AuditStoreForSync
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteArchiveStamps archives all stamp inventories from years before the
// current one. Already archived inventories are never touched, so the yearly
// job can run any number of times.
// PRE: stores are reachable
// POST: All past-year inventories archived with a timestamp
func ExecuteArchiveStamps(ctx context.Context, deps ArchiveStampsDeps) (int, error) {
	now := deps.Now()
	pending, err := deps.StampStore.ListUnarchivedBefore(ctx, now.Year())
	if err != nil {
		return 0, fmt.Errorf("list stamp inventories: %w", err)
	}

	archived := 0
	for _, inv := range pending {
		if err := inv.Archive(now); err != nil {
			continue
		}
		if err := deps.StampStore.Save(ctx, inv); err != nil {
			return archived, fmt.Errorf("save stamp inventory %s: %w", inv.ID, err)
		}
		archived++
	}

	if archived > 0 {
		event := audit.NewEvent(deps.GenerateID(), now, "", audit.CategoryStamp, audit.ActionArchive).
			WithDescription(fmt.Sprintf("archived %d stamp inventories", archived))
		if err := deps.AuditStore.Save(ctx, event); err != nil {
			slog.Error("audit_write_failed", "error", err)
		}
		slog.Info("stamp_event", "event", "inventories_archived", "count", archived)
	}
	return archived, nil
}
