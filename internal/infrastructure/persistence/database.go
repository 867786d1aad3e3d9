package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tradedocs/backend/internal/infrastructure/config"
	applogger "github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the gorm handle shared by all repositories
type Database struct {
	DB *gorm.DB
}

// NewDatabaseWithLogger opens the Postgres pool with SQL logged through zap
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, zapLogger *zap.Logger, logLevel logger.LogLevel) (*Database, error) {
	gormLog := applogger.NewGormLogger(zapLogger, logLevel,
		applogger.WithSlowThreshold(time.Duration(cfg.SlowQueryMillis)*time.Millisecond),
		applogger.WithIgnoreRecordNotFoundError(true),
	)
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(gormLog))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{DB: db}
	sqlDB, err := d.pool()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

// GormConfig is shared by the server and the repository tests.
// TranslateError lets repositories see gorm.ErrDuplicatedKey for unique violations.
func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:                 l,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}
}

func (d *Database) pool() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Ping checks the connection; used by the health endpoint
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.pool()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool
func (d *Database) Close() error {
	sqlDB, err := d.pool()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates the schema from the models. Production uses the SQL
// migrations; this is for tests and local sqlite runs.
func AutoMigrate(db *gorm.DB) error {
	all := append(models.MasterModels(), models.TradeModels()...)
	all = append(all, models.IdentityModels()...)
	all = append(all, models.PrintArchiveModels()...)
	return db.AutoMigrate(all...)
}
