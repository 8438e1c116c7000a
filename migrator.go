package status_logger

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Maksumys/status-logger/internal/repository"
)

// NewMigrationRunner creates the runner applying registered migrations in
// declaration order, exactly once each, tracked in the ledger table.
func NewMigrationRunner(db Store, opts ...RunnerOption) *MigrationRunner {
	runner := MigrationRunner{
		db:                      db,
		logger:                  logrus.StandardLogger(),
		registeredMigrations:    make([]Migration, 0),
		registeredMigrationsSet: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(&runner)
	}

	return &runner
}

type MigrationRunner struct {
	db     Store
	logger logrus.FieldLogger

	registeredMigrations    []Migration
	registeredMigrationsSet map[string]struct{}
}

// Register saves migrations in memory. Migrations with an already registered
// id are ignored.
func (m *MigrationRunner) Register(migrations ...Migration) {
	for i := range migrations {
		if _, ok := m.registeredMigrationsSet[migrations[i].ID]; ok {
			continue
		}

		m.registeredMigrationsSet[migrations[i].ID] = struct{}{}
		m.registeredMigrations = append(m.registeredMigrations, migrations[i])
	}
}

// Migrate applies registered migrations in the order they were registered.
// Already applied migrations are skipped, which makes rerunning the whole
// process safe. The first failing operation aborts the run: later migrations
// may depend on earlier ones, so none of them are attempted.
func (m *MigrationRunner) Migrate(ctx context.Context) error {
	m.logger.Info("Preparing migrations execution")

	if err := repository.EnsureLedgerTable(ctx, m.db); err != nil {
		return err
	}

	for _, migration := range m.registeredMigrations {
		applied, err := repository.HasApplied(ctx, m.db, migration.ID)
		if err != nil {
			return err
		}
		if applied {
			m.logger.Infof("Migration %s already applied, skipping", migration.ID)
			continue
		}

		if err = m.executeMigration(ctx, migration); err != nil {
			return errors.WithMessagef(err, "migration %s failed", migration.ID)
		}

		if err = repository.RecordApplied(ctx, m.db, migration.ID); err != nil {
			return err
		}

		m.logger.Infof("Migration %s complete", migration.ID)
	}

	m.logger.Info("Migrations completed, schema is up to date")
	return nil
}

func (m *MigrationRunner) executeMigration(ctx context.Context, migration Migration) error {
	m.logger.Infof("Executing migration %s: %s", migration.ID, migration.Description)

	if migration.Up == "" && migration.UpF == nil || migration.Up != "" && migration.UpF != nil {
		return errors.New("exactly one of Up and UpF must be set")
	}

	if migration.UpF != nil {
		return migration.UpF(ctx, m.db)
	}

	return m.db.Exec(ctx, migration.Up)
}
