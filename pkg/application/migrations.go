package application

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Schema is one module's goose migration directory.
type Schema struct {
	Name string
	FS   fs.FS
	Dir  string
}

// TableName is the goose version table tracking this schema.
func (s Schema) TableName() string {
	return "goose_" + s.Name + "_version"
}

type MigrationManager interface {
	RegisterSchema(name string, fsys fs.FS, dir string)
	Schemas() []Schema
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	Status(ctx context.Context) error
}

// goose keeps its base FS and table name in package state.
var gooseMu sync.Mutex

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []Schema
}

func (m *migrationManager) RegisterSchema(name string, fsys fs.FS, dir string) {
	m.schemas = append(m.schemas, Schema{Name: name, FS: fsys, Dir: dir})
}

func (m *migrationManager) Schemas() []Schema {
	return m.schemas
}

// Up applies schemas in registration order.
func (m *migrationManager) Up(ctx context.Context) error {
	return m.each(m.schemas, func(db *sql.DB, s Schema) error {
		return goose.UpContext(ctx, db, s.Dir)
	})
}

// Down rolls back the latest migration of every schema, newest module first.
func (m *migrationManager) Down(ctx context.Context) error {
	reversed := make([]Schema, len(m.schemas))
	for i, s := range m.schemas {
		reversed[len(m.schemas)-1-i] = s
	}
	return m.each(reversed, func(db *sql.DB, s Schema) error {
		return goose.DownContext(ctx, db, s.Dir)
	})
}

func (m *migrationManager) Status(ctx context.Context) error {
	return m.each(m.schemas, func(db *sql.DB, s Schema) error {
		return goose.StatusContext(ctx, db, s.Dir)
	})
}

func (m *migrationManager) each(schemas []Schema, fn func(*sql.DB, Schema) error) error {
	if m.pool == nil {
		return fmt.Errorf("migrations: no database pool configured")
	}
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	gooseMu.Lock()
	defer gooseMu.Unlock()
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for _, s := range schemas {
		goose.SetBaseFS(s.FS)
		goose.SetTableName(s.TableName())
		if err := fn(db, s); err != nil {
			return fmt.Errorf("migrations %s: %w", s.Name, err)
		}
	}
	return nil
}
