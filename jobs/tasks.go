// Package jobs runs background work over Asynq: nightly ledger backups
// and purging of long-soft-deleted entities.
package jobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villasol-erp/villasol-erp/internal/transfer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeBackupSnapshot dumps the ledger to a JSON snapshot file.
	TaskTypeBackupSnapshot = "ledger:backup"
	// TaskTypePurgeDeleted hard-deletes entities soft-deleted long ago.
	TaskTypePurgeDeleted = "ledger:purge_deleted"
)

// BackupPayload configures a snapshot run.
type BackupPayload struct {
	Dir string `json:"dir"`
}

// PurgePayload configures a purge run.
type PurgePayload struct {
	OlderThan time.Duration `json:"olderThan"`
}

// NewBackupTask constructs a backup snapshot task.
func NewBackupTask(payload BackupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeBackupSnapshot, data), nil
}

// NewPurgeTask constructs a purge task.
func NewPurgeTask(payload PurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePurgeDeleted, data), nil
}

// BackupHandler writes ledger snapshots to disk.
func BackupHandler(logger *slog.Logger, source transfer.EntitySource) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload BackupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Dir == "" {
			payload.Dir = "backups"
		}
		if err := os.MkdirAll(payload.Dir, 0o755); err != nil {
			return err
		}

		name := filepath.Join(payload.Dir, "ledger-"+time.Now().Format("20060102-150405")+".json")
		f, err := os.Create(name)
		if err != nil {
			return err
		}

		snapshot, err := writeSnapshotClosing(ctx, f, source)
		if err != nil {
			return err
		}
		logger.Info("ledger backup written",
			slog.String("file", name),
			slog.Int("entities", len(snapshot.Entities)))
		return nil
	}
}

func writeSnapshotClosing(ctx context.Context, f io.WriteCloser, source transfer.EntitySource) (*transfer.Snapshot, error) {
	defer f.Close()
	return transfer.WriteSnapshot(ctx, f, source)
}

// PurgeHandler hard-deletes entities whose soft deletion is older than
// the configured window, entries first.
func PurgeHandler(logger *slog.Logger, pool *pgxpool.Pool) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.OlderThan <= 0 {
			payload.OlderThan = 90 * 24 * time.Hour
		}
		cutoff := time.Now().Add(-payload.OlderThan)

		tag, err := pool.Exec(ctx, `
			DELETE FROM ledger_entries
			WHERE entity_id IN (
				SELECT id FROM billable_entities WHERE deleted_at IS NOT NULL AND deleted_at < $1
			)`, cutoff)
		if err != nil {
			return err
		}
		entries := tag.RowsAffected()

		tag, err = pool.Exec(ctx,
			"DELETE FROM billable_entities WHERE deleted_at IS NOT NULL AND deleted_at < $1",
			cutoff)
		if err != nil {
			return err
		}

		logger.Info("purged soft-deleted entities",
			slog.Int64("entities", tag.RowsAffected()),
			slog.Int64("entries", entries))
		return nil
	}
}
