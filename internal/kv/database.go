package kv

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// blobRow is the single table backing the durable store. One row per key;
// in practice the todo collection occupies exactly one row.
type blobRow struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value []byte `gorm:"not null"`
}

func (blobRow) TableName() string {
	return "blobs"
}

// Database is a Blob implementation persisted through GORM. SQLite is the
// default backend; PostgreSQL can be selected for shared deployments.
type Database struct {
	db *gorm.DB
}

// DatabaseConfig selects the backend and its data source.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // file path / :memory: for sqlite, connection string for postgres
}

// OpenDatabase connects to the configured backend and ensures the blobs
// table exists.
func OpenDatabase(config DatabaseConfig) (*Database, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "sqlite", "":
		dsn := config.DSN
		if dsn == "" {
			dsn = "todomon.db"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&blobRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate blobs table: %w", err)
	}

	return &Database{db: db}, nil
}

// NewDatabase wraps an already-open GORM handle. The caller is expected
// to have run migrations (tests use this with an in-memory SQLite DB).
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Get returns the value stored under key.
func (d *Database) Get(key string) ([]byte, bool, error) {
	var row blobRow
	err := d.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Value, true, nil
}

// Put overwrites the value stored under key.
func (d *Database) Put(key string, value []byte) error {
	row := blobRow{Key: key, Value: value}
	return d.db.Save(&row).Error
}

// Migrate creates the blobs table on an externally-opened handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&blobRow{})
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
