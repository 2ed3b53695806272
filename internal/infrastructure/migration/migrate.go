package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"heybuddy/internal/app/server/config"
)

// Migrator mirrors the subset of migrate.Migrate the wrapper needs.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine builds a Migrator; tests substitute a fake to avoid
// touching the filesystem and database.
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	cfg    *config.Config
	engine MigrationEngine
}

func NewMigration(conf *config.Config, engine MigrationEngine) *Migration {
	return &Migration{
		cfg:    conf,
		engine: engine,
	}
}

func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

func (mg *Migration) Up() error {
	m, err := mg.engine("file://"+mg.cfg.DB.Migrations, mg.cfg.DB.DatabaseURI)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w; migration up error", err)
	}
	return nil
}
