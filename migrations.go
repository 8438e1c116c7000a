package status_logger

import "fmt"

// DefaultMigrations is the schema evolution of the status table, in the order
// it must be applied.
func DefaultMigrations(table string) []Migration {
	return []Migration{
		{
			ID:          "create_json_table",
			Description: "raw status payload table",
			Up: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					captured_at DateTime DEFAULT now(),
					payload     String
				) ENGINE = MergeTree ORDER BY captured_at
			`, table),
		},
		{
			ID:          "add_payload_ttl",
			Description: "expire captured payloads after one year",
			Up: fmt.Sprintf(`
				ALTER TABLE %s MODIFY TTL captured_at + INTERVAL 1 YEAR
			`, table),
		},
	}
}
