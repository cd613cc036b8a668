package database

import (
	"fmt"

	"skinsight/config"
	"skinsight/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init 初始化数据库连接并迁移表结构
func Init(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.Server.Mode)),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(orDefault(cfg.Database.MaxIdleConns, 10))
	sqlDB.SetMaxOpenConns(orDefault(cfg.Database.MaxOpenConns, 100))

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Info("数据库初始化成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)
	return db, nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AnalysisRecord{},
	)
}

// gormLogLevel debug 模式打印 SQL，其余只记录警告
func gormLogLevel(mode string) logger.LogLevel {
	if mode == "debug" {
		return logger.Info
	}
	return logger.Warn
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
