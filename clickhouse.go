package status_logger

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
)

type ClickHouseConfig struct {
	Addr     string `mapstructure:"addr"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// OpenClickHouse connects to clickhouse and verifies the connection with a ping.
func OpenClickHouse(ctx context.Context, config ClickHouseConfig) (Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{config.Addr},
		Auth: clickhouse.Auth{
			Database: config.Database,
			Username: config.Username,
			Password: config.Password,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "could not connect to clickhouse on %s", config.Addr)
	}

	if err = conn.Ping(ctx); err != nil {
		return nil, errors.WithMessagef(err, "failed to ping clickhouse at %s", config.Addr)
	}

	return &clickHouseStore{conn: conn}, nil
}

type clickHouseStore struct {
	conn driver.Conn
}

func (s *clickHouseStore) Exec(ctx context.Context, stmt string, args ...any) error {
	return s.conn.Exec(ctx, stmt, args...)
}

func (s *clickHouseStore) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	return s.conn.Query(ctx, query, args...)
}

// Insert appends rows to the given table in one batch. The returned flag
// reports whether the batch was executed by the server.
func (s *clickHouseStore) Insert(ctx context.Context, table string, rows ...any) (bool, error) {
	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return false, errors.WithMessagef(err, "failed to prepare insert into %s", table)
	}

	for i := range rows {
		if err = batch.AppendStruct(rows[i]); err != nil {
			return false, errors.WithMessagef(err, "failed to append row for %s", table)
		}
	}

	if err = batch.Send(); err != nil {
		return false, errors.WithMessagef(err, "failed to insert into %s", table)
	}

	return batch.IsSent(), nil
}

func (s *clickHouseStore) Close() error {
	return s.conn.Close()
}
