package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Columns added after the first deployments; missing tables are skipped. Legacy installs stored the
// recipient columns as DATE; they are converted to text in place.
const runtimeSchemaSQL = `
ALTER TABLE IF EXISTS product_list ADD COLUMN IF NOT EXISTS image_url TEXT;

ALTER TABLE IF EXISTS submittal_tracker ADD COLUMN IF NOT EXISTS subject VARCHAR(255);
ALTER TABLE IF EXISTS submittal_tracker ADD COLUMN IF NOT EXISTS sent_to_subcontractor VARCHAR(255);
ALTER TABLE IF EXISTS submittal_tracker ADD COLUMN IF NOT EXISTS sent_to_date DATE;
ALTER TABLE IF EXISTS submittal_tracker ADD COLUMN IF NOT EXISTS approvers TEXT;
ALTER TABLE IF EXISTS submittal_tracker ADD COLUMN IF NOT EXISTS lifecycle_status VARCHAR(20) NOT NULL DEFAULT 'opened';
ALTER TABLE IF EXISTS submittal_tracker ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ NOT NULL DEFAULT NOW();

ALTER TABLE IF EXISTS rfi_tracker ADD COLUMN IF NOT EXISTS lifecycle_status VARCHAR(20) NOT NULL DEFAULT 'opened';

DO $$
DECLARE
    rec RECORD;
BEGIN
    FOR rec IN
        SELECT table_name, column_name
        FROM information_schema.columns
        WHERE table_schema = 'public'
            AND data_type <> 'character varying'
            AND (table_name, column_name) IN (
                ('product_list', 'aor'),
                ('product_list', 'eor'),
                ('submittal_tracker', 'sent_to_aor'),
                ('submittal_tracker', 'sent_to_eor'),
                ('submittal_tracker', 'sent_to_subcontractor'),
                ('rfi_tracker', 'sent_to_aor'),
                ('rfi_tracker', 'sent_to_eor'),
                ('rfi_tracker', 'sent_to_subcontractor')
            )
    LOOP
        EXECUTE format(
            'ALTER TABLE public.%I ALTER COLUMN %I TYPE VARCHAR(255) USING %I::text',
            rec.table_name, rec.column_name, rec.column_name
        );
    END LOOP;
END $$;
`

const dropPublicTablesSQL = `
DO $$
DECLARE
    rec RECORD;
BEGIN
    FOR rec IN
        SELECT tablename
        FROM pg_tables
        WHERE schemaname = 'public'
    LOOP
        EXECUTE 'DROP TABLE IF EXISTS public.' || quote_ident(rec.tablename) || ' CASCADE';
    END LOOP;
END $$;
`

// EnsureRuntimeSchema brings databases created by older releases up to the
// columns the repositories select. It is idempotent.
func EnsureRuntimeSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, runtimeSchemaSQL); err != nil {
		return fmt.Errorf("ensure runtime schema: %w", err)
	}
	return nil
}

// Reset drops every public table and recreates the schema from the embedded
// up migrations in a single transaction. Any failure leaves the database untouched.
func Reset(ctx context.Context, db *sql.DB) (err error) {
	scripts, err := upMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, dropPublicTablesSQL); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	for i, script := range scripts {
		if _, err = tx.ExecContext(ctx, script); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
