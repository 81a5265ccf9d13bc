package main

import (
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v4/stdlib"

	"TCGEventSync/internal/adapter/geocode"
	"TCGEventSync/internal/adapter/locator"
	"TCGEventSync/internal/api"
	"TCGEventSync/internal/config"
	"TCGEventSync/internal/model"
	"TCGEventSync/internal/repository"
	"TCGEventSync/internal/scheduler"
	"TCGEventSync/internal/service"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.Info("配置文件加载成功")

	// 3. 初始化存储后端：postgres 用 documents 表整行覆盖，否则落本地 JSON 文件
	var cacheStore repository.CombinedCacheStore
	var snapshotStore repository.ScraperSnapshotStore
	switch cfg.Store.Backend {
	case "postgres":
		gormLogger := logger.Default.LogMode(logger.Warn)
		db, err := gorm.Open(postgres.Open(cfg.Store.DSN), &gorm.Config{Logger: gormLogger})
		if err != nil {
			logrusLogger.Fatalf("连接PostgreSQL失败: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			logrusLogger.Fatalf("获取SQL DB失败: %v", err)
		}
		sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Store.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Store.ConnMaxLifetime)

		// 库表不存在则自动创建
		if err := db.AutoMigrate(&model.StoredDocument{}); err != nil {
			logrusLogger.Fatalf("数据库表结构迁移失败: %v", err)
		}
		logrusLogger.Info("PostgreSQL连接成功，文档表检查完成")

		cacheStore = repository.NewDBCacheStore(db, cfg.Store.CacheTTL, logrusLogger)
		snapshotStore = repository.NewDBSnapshotStore(db, logrusLogger)
	default:
		cacheStore = repository.NewFileCacheStore(cfg.Store.DataDir, cfg.Store.CacheTTL, logrusLogger)
		snapshotStore = repository.NewFileSnapshotStore(cfg.Store.DataDir, logrusLogger)
		logrusLogger.Infof("使用文件存储后端：%s", cfg.Store.DataDir)
	}

	// 4. 初始化上游协作方客户端与聚合服务
	locatorAdapter := locator.NewLocatorAdapter(&cfg.Locator, logrusLogger)
	geocoder := geocode.NewGeocodeClient(&cfg.Geocode, logrusLogger)
	aggService := service.NewAggregationService(cacheStore, snapshotStore, locatorAdapter, cfg, logrusLogger)

	// 5. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// 注册pprof与prometheus指标，方便调试和监测
	pprof.Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 6. 注册API路由
	eventHandler := api.NewEventHandler(aggService, geocoder, logrusLogger, cfg)
	r.GET("/api/events", eventHandler.ListEvents)

	refreshHandler := api.NewRefreshHandler(aggService, logrusLogger, cfg)
	r.POST("/api/refresh", refreshHandler.Refresh)

	// 7. 可选的进程内定时刷新（缓存过期才重建）
	if cfg.Refresh.Enabled && cfg.Refresh.Cron != "" {
		sched := scheduler.NewRefreshScheduler(cfg.Refresh.Cron, aggService, cacheStore, logrusLogger)
		if err := sched.Start(); err != nil {
			logrusLogger.Fatalf("启动定时刷新失败: %v", err)
		}
		defer sched.Stop()
		logrusLogger.Infof("定时刷新已启用：%s", cfg.Refresh.Cron)
	}

	// 8. 启动服务（从配置读取端口）
	port := cfg.Server.Port
	logrusLogger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logrusLogger.Fatalf("启动服务失败: %v", err)
	}
}
