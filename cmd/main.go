package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/container"
	pginfra "github.com/oksasatya/employee-management-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
	"github.com/oksasatya/employee-management-api/internal/interface/middleware"
	"github.com/oksasatya/employee-management-api/internal/router"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
	"github.com/oksasatya/employee-management-api/pkg/ratelimit"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Postgres, unless the in-memory store was requested
	if cfg.DBDriver != "memory" {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	} else {
		logger.Warn("DB_DRIVER=memory; employees are kept in process memory only")
	}

	// Redis backs the shared rate limiter and per-employee locks
	var rdb *redis.Client
	if cfg.RedisEnabled {
		c, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		rdb = c
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	// Notification transports
	if cfg.MailSendEnabled && cfg.NotifyTransport == "rabbitmq" {
		pub, err := helpers.NewRabbitClient(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails will only be logged")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
		container.SetMailgun(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender))
	}

	// Elasticsearch audit index
	if cfg.AuditESEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = helpers.PingES(pingCtx, es)
			cancel()
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; audit entries will not be indexed")
		} else {
			container.SetES(es)
		}
	}

	limiter := buildLimiter(ctx, cfg, rdb, logger)
	container.SetLimiter(limiter)

	// Gin engine and global middleware
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList(), cfg.TrustedPlatform); err != nil {
		log.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(handlers.Recovery(logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.RemainingHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	// Every inbound request, unknown routes included, spends a token from
	// its client's bucket
	allow := middleware.AllowPreflight()
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AnyAllow(allow, middleware.AllowPrivateIP())
	}
	r.Use(middleware.RateLimit(limiter, middleware.KeyByIP(), allow, logger))

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	// Let queued welcome notifications finish before the clients close
	if d := container.GetDispatcher(); d != nil {
		ctxDrain, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.Shutdown(ctxDrain); err != nil {
			logger.WithError(err).Warn("pending notifications abandoned")
		}
		cancelDrain()
	}
	stopBackground()
	logger.Info("server exited properly")
}

// buildLimiter returns the per-IP token bucket limiter. Redis is used when it
// is both requested and connected so that replicas share buckets.
func buildLimiter(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *logrus.Logger) ratelimit.Limiter {
	rlCfg := ratelimit.Config{
		Capacity:     cfg.RateLimitCapacity,
		RefillTokens: cfg.RateLimitRefillTokens,
		RefillPeriod: cfg.RateLimitRefillPeriod,
		IdleTTL:      cfg.RateLimitIdleTTL,
	}
	fields := logrus.Fields{
		"capacity":        cfg.RateLimitCapacity,
		"refill_interval": cfg.RefillInterval().String(),
	}

	if cfg.RateLimitBackend == "redis" {
		if rdb != nil {
			logger.WithFields(fields).Info("rate limiter: redis")
			return ratelimit.NewRedisLimiter(rdb, "rl:ip:", rlCfg)
		}
		logger.Warn("RATE_LIMIT_BACKEND=redis but redis is disabled; using in-memory buckets")
	}

	mem := ratelimit.NewMemoryLimiter(rlCfg)
	mem.StartJanitor(ctx, 0)
	logger.WithFields(fields).Info("rate limiter: memory")
	return mem
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
