// Command api runs the tanod attendance and incident reporting HTTP API.
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

	firebaseapp "firebase.google.com/go/v4"
	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/api"
	"github.com/tanodwatch/tanod-system/internal/api/handler"
	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
	"github.com/tanodwatch/tanod-system/internal/core/service"
	"github.com/tanodwatch/tanod-system/internal/infrastructure/auth"
	mongostore "github.com/tanodwatch/tanod-system/internal/infrastructure/db/mongo"
	redisstore "github.com/tanodwatch/tanod-system/internal/infrastructure/db/redis"
	"github.com/tanodwatch/tanod-system/internal/infrastructure/firebase"
	"github.com/tanodwatch/tanod-system/internal/infrastructure/notification"
	"github.com/tanodwatch/tanod-system/internal/infrastructure/queue"
	"github.com/tanodwatch/tanod-system/internal/pkg/config"
	"github.com/tanodwatch/tanod-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tanod-api: %v\n", err)
		os.Exit(1)
	}
}

// Run wires every dependency and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tanod-api",
	})
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	profiles := mongostore.NewProfileRepository(db)
	attendanceLogs := mongostore.NewAttendanceRepository(db)
	reportLog := mongostore.NewReportRepository(db)
	if err := mongostore.EnsureIndexes(ctx, profiles, attendanceLogs, reportLog); err != nil {
		return err
	}

	var fbApp *firebaseapp.App
	if cfg.UsesFirebase() {
		if fbApp, err = firebase.NewApp(ctx, firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		}); err != nil {
			return err
		}
	}

	verifier, err := newVerifier(ctx, cfg, fbApp)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(ctx, cfg, fbApp, logger.Component("alerts"))
	if err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.Alerts.Workers, notifier, logger.Component("alerts"))
	dispatcher.Start()

	identity := service.NewIdentityService(profiles, logger.Component("identity"))
	attendance := service.NewAttendanceService(attendanceLogs,
		redisstore.NewOwnerLock(rdb, cfg.Attendance.LockTTL), logger.Component("attendance"))
	reports := service.NewReportService(reportLog, redisstore.NewIdempotencyStore(rdb), dispatcher,
		domain.ReportPolicy{AllowFuture: cfg.Reports.AllowFuture, FutureSkew: cfg.Reports.FutureSkew},
		logger.Component("reports"))
	dashboard := service.NewDashboardService(reports, profiles, logger.Component("dashboard"))

	e := api.NewRouter(api.Dependencies{
		Verifier:   verifier,
		Identity:   identity,
		Attendance: attendance,
		Reports:    reports,
		Dashboard:  dashboard,
		Health: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Location:  loc,
		RateLimit: cfg.RateLimit,
		Logger:    logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("auth_provider", cfg.Auth.Provider).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		dispatcher.Stop()
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// After Shutdown no handler can enqueue; drain what is queued.
	dispatcher.Stop()
	log.Info().Msg("shutdown complete")
	return nil
}

func newVerifier(ctx context.Context, cfg *config.Config, app *firebaseapp.App) (ports.TokenVerifier, error) {
	if cfg.Auth.Provider == config.AuthProviderJWT {
		return auth.NewJWTVerifier(cfg.Auth.JWTSecret), nil
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return auth.NewFirebaseVerifier(client), nil
}

func newNotifier(ctx context.Context, cfg *config.Config, app *firebaseapp.App, log zerolog.Logger) (ports.EmergencyNotifier, error) {
	if cfg.Alerts.Topic == "" {
		log.Info().Msg("ALERTS_TOPIC not set, emergency alerts are logged only")
		return notification.NewLogNotifier(log), nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging client: %w", err)
	}
	return notification.NewFCMNotifier(client, cfg.Alerts.Topic), nil
}
