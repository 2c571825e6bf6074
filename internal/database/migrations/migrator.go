package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// Registry holds migrations keyed by ID; IDs sort in execution order.
type Registry struct {
	migrations map[string]Migration
}

func NewRegistry() *Registry {
	return &Registry{migrations: make(map[string]Migration)}
}

// Register adds a new migration to the registry
func (r *Registry) Register(id string, up, down func(*gorm.DB) error) {
	r.migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// IDs returns registered migration IDs in execution order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.migrations))
	for id := range r.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Pending returns the IDs not yet present in executed, in order.
func (r *Registry) Pending(executed []MigrationRecord) []string {
	done := make(map[string]bool, len(executed))
	for _, m := range executed {
		done[m.ID] = true
	}
	var pending []string
	for _, id := range r.IDs() {
		if !done[id] {
			pending = append(pending, id)
		}
	}
	return pending
}

// Run executes all pending migrations
func (r *Registry) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	for _, id := range r.Pending(executed) {
		logger.Info("Running migration", "id", id)
		if err := r.migrations[id].Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
	}
	return nil
}

// LoadSQL registers every *.sql file of fsys as an up-only migration named
// after the file.
func (r *Registry) LoadSQL(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		stmt := string(content)
		r.Register(strings.TrimSuffix(name, ".sql"), func(db *gorm.DB) error {
			return db.Exec(stmt).Error
		}, nil)
	}
	return nil
}

// Embedded returns a registry preloaded with the bundled SQL migrations.
func Embedded() (*Registry, error) {
	sub, err := fs.Sub(sqlFiles, "sql")
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	if err := r.LoadSQL(sub); err != nil {
		return nil, err
	}
	return r, nil
}
