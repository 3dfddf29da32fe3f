package data

import (
	"fmt"
	"time"

	"DonorLane/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the gorm connection selected by conf.Data.Database.Driver
// (mysql, postgres or sqlite) and migrates the schema when AutoMigrate is set.
func NewDB(c *conf.Data, l log.Logger) (*gorm.DB, func(), error) {
	helper := log.NewHelper(l)

	if c == nil || c.Database == nil {
		helper.Error("database configuration is missing")
		return nil, nil, fmt.Errorf("database configuration is required")
	}

	dialector, err := openDialector(c.Database)
	if err != nil {
		return nil, nil, err
	}

	gormLogger := logger.New(
		&gormLogAdapter{helper: helper},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		helper.Errorf("failed to connect to %s: %v", c.Database.Driver, err)
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", c.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if c.Database.Driver == "sqlite" {
		// 内存库只存在于单个连接上，连接池必须固定为一个且不过期
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(int(orDefault(c.Database.MaxIdleConns, 10)))
		sqlDB.SetMaxOpenConns(int(orDefault(c.Database.MaxOpenConns, 100)))
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		helper.Errorf("failed to ping %s: %v", c.Database.Driver, err)
		return nil, nil, fmt.Errorf("failed to ping %s: %w", c.Database.Driver, err)
	}

	if c.Database.AutoMigrate {
		if err := db.AutoMigrate(&Donor{}, &Event{}, &EventDonor{}, &AuditLog{}); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	helper.Infow("msg", "database connection established", "driver", c.Database.Driver, "type", "database")

	cleanup := func() {
		helper.Infof("closing %s connection", c.Database.Driver)
		if err := sqlDB.Close(); err != nil {
			helper.Errorf("failed to close database: %v", err)
		}
	}

	return db, cleanup, nil
}

func openDialector(c *conf.Data_Database) (gorm.Dialector, error) {
	switch c.Driver {
	case "mysql", "":
		return mysql.Open(c.Source), nil
	case "postgres":
		return postgres.Open(c.Source), nil
	case "sqlite":
		return sqlite.Open(c.Source), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func orDefault(v, def int32) int32 {
	if v <= 0 {
		return def
	}
	return v
}

// gormLogAdapter adapts Kratos log.Helper to GORM logger interface.
type gormLogAdapter struct {
	helper *log.Helper
}

// Printf implements gorm/logger.Writer interface.
func (g *gormLogAdapter) Printf(format string, v ...interface{}) {
	g.helper.Warnf(format, v...)
}
