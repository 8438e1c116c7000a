package models

import "time"

// MigrationRecord is one row of the schema_migrations ledger. A record is
// written once, when the migration's operation has completed, and is never
// updated or deleted afterwards.
type MigrationRecord struct {
	ID        string    `ch:"id"`
	AppliedAt time.Time `ch:"applied_at"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}
