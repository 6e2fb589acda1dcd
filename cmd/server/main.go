package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rgtools/partner-admin/internal/api"
	"github.com/rgtools/partner-admin/internal/api/handler"
	"github.com/rgtools/partner-admin/internal/core/ports"
	"github.com/rgtools/partner-admin/internal/core/service"
	"github.com/rgtools/partner-admin/internal/infrastructure/cloudflare"
	mongodb "github.com/rgtools/partner-admin/internal/infrastructure/db/mongo"
	redisstore "github.com/rgtools/partner-admin/internal/infrastructure/db/redis"
	"github.com/rgtools/partner-admin/internal/infrastructure/dns"
	"github.com/rgtools/partner-admin/internal/infrastructure/memory"
	"github.com/rgtools/partner-admin/internal/pkg/config"
	"github.com/rgtools/partner-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Partner Admin API
// @version                     1.0
// @description                 Partner onboarding, toplists and custom domains backed by Cloudflare.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "partner-admin",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cf := cloudflare.NewClient(cloudflare.Config{
		BaseURL:  cfg.Cloudflare.BaseURL,
		APIToken: cfg.Cloudflare.APIToken,
		Timeout:  cfg.Cloudflare.Timeout,
	})
	hostnames := cloudflare.NewHostnameProvisioner(cf, cfg.Cloudflare.ZoneID)
	checks := map[string]handler.DependencyCheck{"cloudflare": hostnames.VerifyToken}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	store, closeStore, err := buildRecordStore(ctx, cfg, cf, checks)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("setup record store")
	}
	closers = append(closers, closeStore)

	users, closeUsers, err := buildUserRepository(ctx, cfg, checks)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.UserStore).Msg("setup user store")
	}
	closers = append(closers, closeUsers)

	created, err := service.SeedAdmin(ctx, users, cfg.Admin.ID, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Bool("created", created).Str("email", cfg.Admin.Email).Msg("admin account ready")

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router := api.NewRouter(api.Dependencies{
		Log:      log,
		Tokens:   tokens,
		Auth:     service.NewAuthService(users, tokens),
		Partners: service.NewPartnerService(users, store, hostnames, dns.NewResolver(nil), cfg.PartnerDomainSuffix, log),
		Toplists: service.NewToplistService(store, log),
		Domains:  service.NewDomainService(store, hostnames, cfg.DomainSuffix, log),

		HealthChecks:    checks,
		LoginRatePerSec: cfg.LoginRatePerSec,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("bye")
}

// buildRecordStore selects the key/value backend. Redis registers its own
// readiness check.
func buildRecordStore(ctx context.Context, cfg *config.Config, cf *resty.Client, checks map[string]handler.DependencyCheck) (ports.RecordStore, func(), error) {
	if cfg.StoreBackend == config.StoreRedis {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redisstore.NewRecordStore(client), func() { _ = client.Close() }, nil
	}

	return cloudflare.NewKVStore(cf, cfg.Cloudflare.AccountID, cfg.Cloudflare.NamespaceID), func() {}, nil
}

// buildUserRepository selects the credential store. Mongo registers its own
// readiness check.
func buildUserRepository(ctx context.Context, cfg *config.Config, checks map[string]handler.DependencyCheck) (ports.UserRepository, func(), error) {
	if cfg.UserStore != config.UsersMongo {
		return memory.NewUserRepository(), func() {}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		disconnect()
		return nil, nil, err
	}
	checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	return repo, disconnect, nil
}
