package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/internal/config"
	"qrlink-go/internal/repository"
	"qrlink-go/pkg/logging"
)

// appEnv 各子命令共用的配置、日志和数据库
type appEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// bootstrap forceMigrate 为 true 时无视 db.auto_migrate 总是同步表结构
func bootstrap(forceMigrate bool) (*appEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbCfg := cfg.DB
	dbCfg.AutoMigrate = dbCfg.AutoMigrate || forceMigrate
	db, err := repository.OpenDB(dbCfg, logger, logging.AtomicLevel)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &appEnv{cfg: cfg, logger: logger, db: db}, nil
}

func (rt *appEnv) close() {
	if err := repository.CloseDB(rt.db); err != nil {
		rt.logger.Warn("Database close failed", zap.Error(err))
	}
	_ = rt.logger.Sync()
}
