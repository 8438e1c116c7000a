package status_logger

import (
	"context"
	"strings"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
)

// fakeStore is an in-memory Store: it keeps executed statements, the
// migration ledger and inserted rows, and can be told to fail selectively.
type fakeStore struct {
	mu sync.Mutex

	execs        []string
	applied      []string
	insertTables []string
	insertRows   [][]any

	failExecContaining string
	ledgerQueryErr     error
	recordErr          error
	insertErr          error
	insertNotExecuted  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Exec(ctx context.Context, stmt string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.Contains(stmt, "INSERT INTO schema_migrations") {
		if s.recordErr != nil {
			return s.recordErr
		}
		s.applied = append(s.applied, args[0].(string))
		return nil
	}

	if s.failExecContaining != "" && strings.Contains(stmt, s.failExecContaining) {
		return errors.Errorf("statement rejected: %s", s.failExecContaining)
	}

	s.execs = append(s.execs, stmt)
	return nil
}

func (s *fakeStore) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledgerQueryErr != nil {
		return nil, s.ledgerQueryErr
	}

	var count uint64
	for _, id := range s.applied {
		if id == args[0].(string) {
			count++
		}
	}
	return &fakeRows{counts: []uint64{count}}, nil
}

func (s *fakeStore) Insert(ctx context.Context, table string, rows ...any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return false, s.insertErr
	}
	if s.insertNotExecuted {
		return false, nil
	}

	s.insertTables = append(s.insertTables, table)
	s.insertRows = append(s.insertRows, rows)
	return true, nil
}

func (s *fakeStore) Close() error {
	return nil
}

func (s *fakeStore) execCountContaining(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, stmt := range s.execs {
		if strings.Contains(stmt, substr) {
			n++
		}
	}
	return n
}

func (s *fakeStore) appliedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.applied))
	copy(out, s.applied)
	return out
}

func (s *fakeStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.insertRows)
}

// fakeRows serves exactly one row with the ledger count.
type fakeRows struct {
	counts []uint64
	pos    int
}

func (r *fakeRows) Next() bool {
	return r.pos < len(r.counts)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.pos >= len(r.counts) {
		return errors.New("scan past end of result")
	}
	ptr, ok := dest[0].(*uint64)
	if !ok {
		return errors.New("unexpected scan destination")
	}
	*ptr = r.counts[r.pos]
	r.pos++
	return nil
}

func (r *fakeRows) ScanStruct(dest any) error        { return errors.New("not supported") }
func (r *fakeRows) ColumnTypes() []driver.ColumnType { return nil }
func (r *fakeRows) Totals(dest ...any) error         { return errors.New("not supported") }
func (r *fakeRows) Columns() []string                { return []string{"count()"} }
func (r *fakeRows) Close() error                     { return nil }
func (r *fakeRows) Err() error                       { return nil }

// fakeFetcher returns a fixed outcome and counts how often it was asked.
type fakeFetcher struct {
	mu      sync.Mutex
	payload []byte
	outcome FetchOutcome
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]byte, FetchOutcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.outcome != FetchOK {
		return nil, f.outcome
	}
	return f.payload, FetchOK
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}
