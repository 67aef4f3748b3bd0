package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// btree_gist lets the exclusion constraint below combine the
		// equality on user_id with the range overlap check.
		_, err := db.NewRaw("CREATE EXTENSION IF NOT EXISTS btree_gist").Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create btree_gist extension: %w", err)
		}

		_, err = db.NewRaw(`
			-- Report dedup: the storage-level guarantee behind ReportAlreadyExists
			CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_reporter_target_reason
			ON reports (reporter_id, target_id, reason);

			-- Threshold count query: reports against a target, newest first
			CREATE INDEX IF NOT EXISTS idx_reports_target_time
			ON reports (target_id, reported_at DESC);

			-- Active ban lookup by user
			CREATE INDEX IF NOT EXISTS idx_ban_records_user_expiry
			ON ban_records (user_id, expires_at);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		// At most one active ban per user: a NULL expiry is an unbounded
		// range, so two overlapping ban periods for the same user are
		// rejected by the store no matter how the writers race.
		_, err = db.NewRaw(`
			ALTER TABLE ban_records ADD CONSTRAINT excl_ban_records_one_active
			EXCLUDE USING gist (user_id WITH =, tstzrange(banned_at, expires_at) WITH &&)
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create ban exclusion constraint: %w", err)
		}

		_, err = db.NewRaw(`
			ALTER TABLE reports
				ADD CONSTRAINT fk_reports_reporter FOREIGN KEY (reporter_id) REFERENCES users (id),
				ADD CONSTRAINT fk_reports_target FOREIGN KEY (target_id) REFERENCES users (id);

			ALTER TABLE ban_records
				ADD CONSTRAINT fk_ban_records_user FOREIGN KEY (user_id) REFERENCES users (id);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create foreign keys: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			ALTER TABLE ban_records DROP CONSTRAINT IF EXISTS fk_ban_records_user;
			ALTER TABLE reports DROP CONSTRAINT IF EXISTS fk_reports_target;
			ALTER TABLE reports DROP CONSTRAINT IF EXISTS fk_reports_reporter;
			ALTER TABLE ban_records DROP CONSTRAINT IF EXISTS excl_ban_records_one_active;
			DROP INDEX IF EXISTS idx_ban_records_user_expiry;
			DROP INDEX IF EXISTS idx_reports_target_time;
			DROP INDEX IF EXISTS idx_reports_reporter_target_reason;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop constraints: %w", err)
		}

		return nil
	})
}
