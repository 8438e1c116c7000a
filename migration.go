package status_logger

import "context"

// Migration is a named, one-time schema change. Exactly one of Up and UpF
// must be set.
//
// Application is not transactional with the ledger write: the operation runs
// first and is recorded afterwards, so a crash in between means the operation
// runs again on the next start. Every migration must therefore be written in
// an apply-if-not-already-applied style (CREATE TABLE IF NOT EXISTS, additive
// ALTER ... MODIFY and the like).
type Migration struct {
	ID          string
	Description string

	Up  string
	UpF func(ctx context.Context, db Store) error
}
