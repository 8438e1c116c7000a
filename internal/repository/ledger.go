package repository

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"

	"github.com/Maksumys/status-logger/internal/models"
)

// Querier is the subset of the store the ledger needs.
type Querier interface {
	Exec(ctx context.Context, stmt string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
}

// EnsureLedgerTable creates the migrations ledger if it does not exist yet.
// Safe to call on every process start.
func EnsureLedgerTable(ctx context.Context, db Querier) error {
	err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+models.MigrationRecord{}.TableName()+` (
			id         String,
			applied_at DateTime
		) ENGINE = MergeTree ORDER BY id
	`)
	if err != nil {
		return errors.WithMessage(err, "failed to create migrations ledger table")
	}
	return nil
}

// HasApplied reports whether a ledger record exists for the given migration id.
// A ledger that cannot produce a readable count is reported as an error, not
// as "not applied": the caller must not guess at migration state.
func HasApplied(ctx context.Context, db Querier, id string) (bool, error) {
	rows, err := db.Query(ctx,
		`SELECT count() FROM `+models.MigrationRecord{}.TableName()+` WHERE id = ?`, id)
	if err != nil {
		return false, errors.WithMessagef(err, "failed to query ledger for migration %s", id)
	}
	defer rows.Close()

	if !rows.Next() {
		return false, errors.Errorf("ledger returned no count row for migration %s", id)
	}

	var count uint64
	if err = rows.Scan(&count); err != nil {
		return false, errors.WithMessagef(err, "unreadable ledger count for migration %s", id)
	}

	return count > 0, nil
}

// RecordApplied appends a ledger record for the given migration id.
func RecordApplied(ctx context.Context, db Querier, id string) error {
	err := db.Exec(ctx,
		`INSERT INTO `+models.MigrationRecord{}.TableName()+` (id, applied_at) VALUES (?, ?)`,
		id, time.Now().UTC())
	if err != nil {
		return errors.WithMessagef(err, "failed to record migration %s as applied", id)
	}
	return nil
}
