package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/autopub/config"
    "github.com/d60-Lab/autopub/internal/model"
)

// InitDB 按配置初始化数据库连接并自动迁移
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    var dial gorm.Dialector
    switch cfg.Database.Driver {
    case "postgres":
        dial = postgres.Open(cfg.Database.DSN)
    case "sqlite":
        dial = sqlite.Open(cfg.Database.DSN)
    default:
        return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
    }

    db, err := gorm.Open(dial, &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Warn),
    })
    if err != nil {
        return nil, err
    }

    if err := db.AutoMigrate(
        &model.User{},
        &model.ContentItem{},
        &model.ScheduleEntry{},
    ); err != nil {
        return nil, err
    }
    return db, nil
}
