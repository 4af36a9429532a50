package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"account-service/internal/core/auth"
	"account-service/internal/core/cache"
	"account-service/internal/core/config"
	"account-service/internal/core/database"
	"account-service/internal/core/logger"
	"account-service/internal/core/server"
	"account-service/internal/domain"
	"account-service/internal/repo"
	"account-service/internal/service"
	"account-service/internal/transport/http/handler"
	"account-service/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	// 标准库 log（net/http 内部错误等）也走 zap
	defer logger.RedirectStdLog(log.Named("stdlib"), zapcore.WarnLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	gormRepo := repo.NewAccountRepo(db)
	if cfg.DB.AutoMigrate {
		if err := gormRepo.Migrate(context.Background()); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}
	accounts, closeCache := withCache(cfg, gormRepo, log)
	defer closeCache()

	// JWT + bcrypt
	jwter, err := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		log.Fatal("jwt init", zap.Error(err))
	}
	hasher := auth.NewBcryptHasher(cfg.Security.BcryptCost)

	// 用例
	m := service.NewMetrics(prometheus.DefaultRegisterer)
	accountSvc := service.NewAccountService(accounts, hasher, log.Named("account"), m)
	authSvc := service.NewAuthService(accounts, hasher, jwter, log.Named("auth"), m)

	// 启动时确保 superadmin
	if b := cfg.Bootstrap; b.SuperadminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		a, err := accountSvc.EnsureSuperadmin(ctx, service.BootstrapInput{
			Email:    b.SuperadminEmail,
			Password: b.SuperadminPassword,
			Name:     b.SuperadminName,
			Surname:  b.SuperadminSurname,
		})
		cancel()
		if err != nil {
			log.Fatal("bootstrap superadmin failed", zap.Error(err))
		}
		log.Info("superadmin ready", zap.String("account_id", a.ID))
	}

	// 路由（用户端）
	r := router.NewAPIEngine(router.Deps{
		Log:      log,
		Env:      cfg.App.Env,
		HTTP:     cfg.App.HTTP,
		Registry: (&router.Registry{}).Register(handler.NewAccountHandler(accountSvc, authSvc, log)),
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("account api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("account api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("account api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l.Named("gorm"),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// withCache redis 可用时给账户查询加一层缓存；连不上只告警，直接走 DB
func withCache(cfg *config.Config, next domain.AccountRepository, l *zap.Logger) (domain.AccountRepository, func()) {
	if !cfg.Redis.Enabled {
		return next, func() {}
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return next, func() {}
	}
	l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	ttl := time.Duration(cfg.Redis.TTLSec) * time.Second
	return repo.NewCachedAccountRepo(next, c, ttl, l.Named("cache")), func() { _ = c.Close() }
}
