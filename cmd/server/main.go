package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"spinlink/internal/audit"
	auditrepo "spinlink/internal/audit/repository"
	"spinlink/internal/config"
	"spinlink/internal/db"
	djsessionrepo "spinlink/internal/djsession/repository"
	endpointhandler "spinlink/internal/endpoint/handler"
	endpointrepo "spinlink/internal/endpoint/repository"
	endpointservice "spinlink/internal/endpoint/service"
	healthhandler "spinlink/internal/health/handler"
	identityhandler "spinlink/internal/identity/handler"
	identityrepo "spinlink/internal/identity/repository"
	identityservice "spinlink/internal/identity/service"
	"spinlink/internal/logging"
	"spinlink/internal/ratelimit"
	"spinlink/internal/security"
	"spinlink/internal/server"
	showhandler "spinlink/internal/show/handler"
	showrepo "spinlink/internal/show/repository"
	showservice "spinlink/internal/show/service"
	"spinlink/internal/telemetry"
	telemetryotel "spinlink/internal/telemetry/otel"
	"spinlink/internal/telemetry/producer"
	tenanthandler "spinlink/internal/tenant/handler"
	tenantrepo "spinlink/internal/tenant/repository"
	tenantservice "spinlink/internal/tenant/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(logging.FromEnv())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync(logger)

	if cfg.UserTokenSecret == "" {
		logger.Fatal("USER_TOKEN_SECRET must be set")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL must be set")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	defer database.Close()

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "spinlink", cfg.OTLPInsecure)
	if err != nil {
		logger.Fatal("otel setup", zap.Error(err))
	}
	providers.SetGlobal()

	kafkaProducer, err := producer.NewKafkaProducer(cfg.EventKafkaBrokersList(), cfg.EventKafkaTopic)
	if err != nil {
		logger.Fatal("kafka producer", zap.Error(err))
	}
	emitter := telemetry.Fanout{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	if kafkaProducer != nil {
		defer func() { _ = kafkaProducer.Close() }()
		emitter = append(emitter, kafkaProducer)
	}

	tokens := security.NewTokenProvider([]byte(cfg.UserTokenSecret), cfg.TokenIssuer,
		cfg.CapabilityTokenTTL(), cfg.UserSessionTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	tenantRepo := tenantrepo.NewPostgresRepository(database)
	endpointRepo := endpointrepo.NewPostgresRepository(database)
	showRepo := showrepo.NewPostgresRepository(database)
	sessionRepo := djsessionrepo.NewPostgresRepository(database)
	refreshRepo := identityrepo.NewPostgresRepository(database)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(database), audit.ClientIPFromContext)

	endpointSvc := endpointservice.NewService(endpointRepo, tenantRepo, hasher)
	ledger := showservice.NewLedger(showRepo, sessionRepo, endpointRepo, tokens)
	tenantSvc := tenantservice.NewService(tenantRepo, endpointRepo, showRepo)
	tokenSvc := identityservice.NewTokenService(refreshRepo, tokens, cfg.RefreshTTL())

	srv := server.New(cfg.HTTPAddr, server.Config{
		Logger:         logger,
		Shows:          showhandler.NewServer(ledger, emitter, logger),
		Endpoints:      endpointhandler.NewServer(endpointSvc, emitter, logger),
		Tenants:        tenanthandler.NewServer(tenantSvc),
		Identity:       identityhandler.NewServer(tokenSvc),
		Health:         healthhandler.NewServer(database),
		EndpointAuth:   endpointSvc,
		TokenProvider:  tokens,
		AuditLogger:    auditLogger,
		ResolveLimiter: ratelimit.New(cfg.ResolveRateMax, cfg.ResolveWindow()),
		AuthLimiter:    ratelimit.New(cfg.AuthRateMax, cfg.AuthWindow()),
		AdminLimiter:   ratelimit.New(cfg.AdminRateMax, cfg.AdminWindow()),
	})

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	// Let in-flight async event emits drain before the providers go away.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Error("otel shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}
