package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type PoolConfig struct {
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLife        time.Duration
}

func GormOpen(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true, TranslateError: true})
}

// GormOpenSQLite opens a file (or "file::memory:?cache=shared") database for local runs.
func GormOpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true, TranslateError: true})
}

func ConfigurePool(db *gorm.DB, pool PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if pool.MaxOpenConnections > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConnections)
	}
	if pool.MaxIdleConnections > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConnections)
	}
	if pool.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLife)
	}
	return nil
}

func RunMigrations(db *gorm.DB, entities ...interface{}) error {
	if err := db.AutoMigrate(entities...); err != nil {
		return err
	}
	return nil
}
