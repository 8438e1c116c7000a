package status_logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Maksumys/status-logger/internal/models"
)

// CycleOutcome is the result of one fetch-and-insert cycle. It exists for
// logging only and is never persisted.
type CycleOutcome string

const (
	CycleInserted        CycleOutcome = "inserted"
	CycleSkippedNoData   CycleOutcome = "skipped_no_data"
	CycleSkippedTimedOut CycleOutcome = "skipped_timed_out"
	CycleFailedInsert    CycleOutcome = "failed_insert"
)

// StatusFetcher yields the raw payload of one fetch attempt, or the reason
// there is none.
type StatusFetcher interface {
	Fetch(ctx context.Context) ([]byte, FetchOutcome)
}

// IngestLoop performs one remote read and at most one store write per cycle.
// It carries no state between cycles.
type IngestLoop struct {
	fetcher StatusFetcher
	db      Store
	table   string
	logger  logrus.FieldLogger
}

func NewIngestLoop(fetcher StatusFetcher, db Store, table string, logger logrus.FieldLogger) *IngestLoop {
	return &IngestLoop{
		fetcher: fetcher,
		db:      db,
		table:   table,
		logger:  logger,
	}
}

// RunOnce fetches the status document and appends it to the store. Every
// failure is absorbed here: a lost cycle is logged and the next tick proceeds.
func (l *IngestLoop) RunOnce(ctx context.Context) CycleOutcome {
	payload, outcome := l.fetcher.Fetch(ctx)
	switch outcome {
	case FetchOK:
	case FetchTimedOut:
		l.logger.Warn("No payload this cycle: fetch timed out")
		return CycleSkippedTimedOut
	default:
		l.logger.Warnf("No payload this cycle: fetch %s", outcome)
		return CycleSkippedNoData
	}

	row := models.StatusRow{
		CapturedAt: time.Now().UTC(),
		Payload:    string(payload),
	}

	executed, err := l.db.Insert(ctx, l.table, &row)
	if err != nil {
		l.logger.WithError(err).Error("Failed to insert status payload, cycle lost")
		return CycleFailedInsert
	}
	if !executed {
		l.logger.Error("Status insert was not executed by the store, cycle lost")
		return CycleFailedInsert
	}

	l.logger.Infof("Inserted status payload (%d bytes)", len(payload))
	return CycleInserted
}
