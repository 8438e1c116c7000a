package status_logger

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Store is the narrow surface of the analytical database used by the logger:
// statement execution for DDL and ledger writes, parameterized queries, and a
// batched insert reporting whether the write was executed.
type Store interface {
	Exec(ctx context.Context, stmt string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Insert(ctx context.Context, table string, rows ...any) (bool, error)
	Close() error
}
