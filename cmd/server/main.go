package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	_ "github.com/batagalla/mushmind-detector/docs" // swagger docs

	"github.com/batagalla/mushmind-detector/internal/api"
	"github.com/batagalla/mushmind-detector/internal/api/metrics"
	"github.com/batagalla/mushmind-detector/internal/core/service"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/config"
	mongodb "github.com/batagalla/mushmind-detector/internal/infrastructure/db/mongo"
	redisdb "github.com/batagalla/mushmind-detector/internal/infrastructure/db/redis"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/http/handlers"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/queue"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/storage/s3"
	"github.com/batagalla/mushmind-detector/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Mushmind API
// @version 1.0
// @description Mushroom identification API: image upload, classification, feedback and administration.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Pretty: true})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "mushmind-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	objects, err := s3.New(ctx, s3.Config{
		Bucket:        cfg.S3.Bucket,
		Region:        cfg.S3.Region,
		Endpoint:      cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		UsePathStyle:  cfg.S3.UsePathStyle,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return err
	}

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	admins := mongodb.NewAdminRepository(db)
	imageRepos := service.ImageRepos{
		Images:          mongodb.NewImageRepository(db),
		Classifications: mongodb.NewClassificationRepository(db),
		History:         mongodb.NewHistoryRepository(db),
		Feedback:        mongodb.NewFeedbackRepository(db),
	}
	tx := mongodb.NewTransactor(client, cfg.Mongo.Transactions)

	purger := queue.NewPurgeDispatcher(cfg.Purge.Workers, cfg.Purge.QueueSize, objects, logger.Component("purge"))
	purger.Start(ctx)
	defer purger.Stop()

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(users, tokens, logger.Component("auth"))
	adminSvc := service.NewAdminService(users, admins,
		mongodb.NewSettingsRepository(db), mongodb.NewStatsRepository(db), tx, logger.Component("admin"))
	imageSvc := service.NewImageService(imageRepos, objects, service.NewRandomClassifier(), purger, tx,
		cfg.MaxUploadBytes(), logger.Component("images"))
	feedbackSvc := service.NewFeedbackService(imageRepos.Feedback, imageRepos.Images, logger.Component("feedback"))

	if cfg.DefaultAdmin.Email != "" {
		if _, err := adminSvc.EnsureDefaultAdmin(ctx, cfg.DefaultAdmin.Name, cfg.DefaultAdmin.Email, cfg.DefaultAdmin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Tokens:       tokens,
		Users:        users,
		Admins:       admins,
		Auth:         authSvc,
		Images:       imageSvc,
		Feedback:     feedbackSvc,
		Admin:        adminSvc,
		LoginLimiter: redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		HealthChecks: map[string]handlers.Check{
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
			"s3":    objects.HealthCheck,
		},
		Registry:       reg,
		Logger:         logger.Component("http"),
		Production:     cfg.IsProduction(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CORSOrigins:    cfg.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
