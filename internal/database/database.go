package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteFile = "database.db"

func Connect(cfg *config.DatabaseConfig, env string, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if env == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	// Connection pool settings
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info("connected to database", "driver", cfg.Driver, "database", cfg.Name)

	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		if err := os.MkdirAll(cfg.SQLiteLocation, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
		path := filepath.Join(cfg.SQLiteLocation, sqliteFile)
		return sqlite.Open(SQLiteDSN(path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN enables foreign key enforcement, which sqlite leaves off by default.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// DropAll drops every table, dependants first.
func DropAll(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("dropping %T: %w", all[i], err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
