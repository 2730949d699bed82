package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yoockh/jobwallah/config"
	"github.com/yoockh/jobwallah/internal/analyzer"
	"github.com/yoockh/jobwallah/internal/api/handlers"
	"github.com/yoockh/jobwallah/internal/api/middleware"
	"github.com/yoockh/jobwallah/internal/api/routes"
	"github.com/yoockh/jobwallah/internal/cache"
	"github.com/yoockh/jobwallah/internal/events"
	"github.com/yoockh/jobwallah/internal/logger"
	"github.com/yoockh/jobwallah/internal/providers/extract"
	"github.com/yoockh/jobwallah/internal/providers/llm"
	"github.com/yoockh/jobwallah/internal/quota"
	mongorepo "github.com/yoockh/jobwallah/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobwallah/internal/repositories/postgres"
	"github.com/yoockh/jobwallah/internal/services"
	"github.com/yoockh/jobwallah/internal/storage"
	"github.com/yoockh/jobwallah/internal/utils"
	"github.com/yoockh/jobwallah/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	mdb, err := config.MongoDatabase()
	if err != nil {
		log.WithError(err).Fatal("MongoDB database error")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	uploader, closeStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("storage init error")
	}
	defer closeStorage()

	oracle, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		log.WithError(err).Fatal("llm init error")
	}
	defer oracle.Close()

	pdf, err := extract.NewEinoPDF(ctx)
	if err != nil {
		log.WithError(err).Fatal("pdf parser init error")
	}

	// repositories
	users := pgrepo.NewUserRepo(config.PostgresDB)
	jobs := pgrepo.NewJobRepo(config.PostgresDB)
	apps := pgrepo.NewApplicationRepo(config.PostgresDB)
	checks := mongorepo.NewResumeCheckRepo(mdb)
	eventLog := mongorepo.NewEventRepo(mdb)

	// shared infrastructure
	rdb := config.RedisClient
	jobCache := cache.NewRedisCache(rdb, "jobwallah:")
	publisher := events.NewRedisStreamPublisher(rdb, events.DefaultStream)
	extractor := extract.New(pdf, log)
	scorer := analyzer.New(oracle, log, analyzer.WithTimeout(cfg.AnalyzerTimeout))
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, "jobwallah")

	pool := &workers.EventWorkerPool{
		Redis:      rdb,
		Processor:  &workers.EventProcessor{Events: eventLog, Notifier: events.NewRedisNotifier(rdb), Logger: log},
		NumWorkers: cfg.EventWorkers,
		Logger:     log,
		Stream:     events.DefaultStream,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("event workers init error")
	}

	// services
	authSvc := services.NewAuthService(users, tokens, nil)
	jobSvc := services.NewJobService(jobs, jobCache, log, nil)
	appSvc := services.NewApplicationService(services.ApplicationDeps{
		Jobs:         jobs,
		Applications: apps,
		Events:       eventLog,
		Extractor:    extractor,
		Analyzer:     scorer,
		Uploader:     uploader,
		Publisher:    publisher,
		Cache:        jobCache,
		Logger:       log,
	})
	checkSvc := services.NewResumeCheckService(services.ResumeCheckDeps{
		Checks:       checks,
		Applications: apps,
		Slots:        quota.NewRedisSlots(rdb),
		Extractor:    extractor,
		Analyzer:     scorer,
		Uploader:     uploader,
		Logger:       log,
	})
	adminSvc := services.NewAdminService(users, jobs, apps, jobCache, log)

	sqlDB, err := config.PostgresDB.DB()
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL handle error")
	}
	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": sqlDB.PingContext,
		"mongo":    func(ctx context.Context) error { return config.MongoClient.Ping(ctx, nil) },
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		Tokens:      tokens,
		CORSOrigins: cfg.CORSOrigins,
		Health:      health,
		Auth:        handlers.NewAuthHandler(authSvc),
		Jobs:        handlers.NewJobHandler(jobSvc),
		Application: handlers.NewApplicationHandler(appSvc),
		Resume:      handlers.NewResumeHandler(checkSvc),
		Admin:       handlers.NewAdminHandler(adminSvc),
		WS:          handlers.NewWSHandler(rdb, log, cfg.CORSOrigins),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown error")
	}
	_ = config.MongoClient.Disconnect(shutdownCtx)
	_ = rdb.Close()
}
