package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	authhandler "huduma/internal/auth/handler"
	authservice "huduma/internal/auth/service"
	"huduma/internal/auth/store/revocation"
	"huduma/internal/auth/token"
	identityhandler "huduma/internal/identity/handler"
	identityservice "huduma/internal/identity/service"
	identitystore "huduma/internal/identity/store"
	"huduma/internal/letter"
	"huduma/internal/platform/config"
	"huduma/internal/platform/httpserver"
	"huduma/internal/platform/logger"
	"huduma/internal/platform/metrics"
	"huduma/internal/platform/postgres"
	redisclient "huduma/internal/platform/redis"
	httptransport "huduma/internal/transport/http"
	"huduma/internal/verification/adapters"
	verificationhandler "huduma/internal/verification/handler"
	verificationmetrics "huduma/internal/verification/metrics"
	verificationservice "huduma/internal/verification/service"
	verificationstore "huduma/internal/verification/store"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/audit/publisher"
	auditmemory "huduma/pkg/platform/audit/store/memory"
	auditpostgres "huduma/pkg/platform/audit/store/postgres"
	"huduma/pkg/platform/circuit"
	"huduma/pkg/platform/middleware/auth"
	txcontext "huduma/pkg/platform/tx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// stores holds whichever backend the configuration selected.
type stores struct {
	identity interface {
		identityservice.UserStore
		identityservice.ProfileStore
	}
	identityTx identityservice.TxRunner
	requests   verificationservice.RequestStore
	requestsTx verificationservice.TxRunner
	audit      audit.Store
	checks     map[string]httptransport.HealthCheck
	close      func()
}

func openStores(ctx context.Context, cfg config.Database, log *slog.Logger) (*stores, error) {
	if cfg.URL == "" {
		log.Info("DATABASE_URL not set, using in-memory stores")
		users := identitystore.NewInMemory()
		requests := verificationstore.NewInMemory()
		return &stores{
			identity:   users,
			identityTx: users,
			requests:   requests,
			requestsTx: requests,
			audit:      auditmemory.NewInMemoryStore(),
			checks:     map[string]httptransport.HealthCheck{},
			close:      func() {},
		}, nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	runner := txcontext.NewSQLRunner(db)
	return &stores{
		identity:   identitystore.NewPostgres(db),
		identityTx: runner,
		requests:   verificationstore.NewPostgres(db),
		requestsTx: runner,
		audit:      auditpostgres.New(db),
		checks:     map[string]httptransport.HealthCheck{"postgres": db.PingContext},
		close:      func() { closeDB(db, log) },
	}, nil
}

func closeDB(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Warn("close postgres", "error", err)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer st.close()

	m := metrics.New()
	auditor := publisher.NewPublisher(st.audit, publisher.WithLogger(log))

	identity, err := identityservice.New(st.identity, st.identity, st.identityTx,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditor),
		identityservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	revoked, closeRedis, err := revocationStore(ctx, cfg.Redis, m, st.checks, log)
	if err != nil {
		return err
	}
	defer closeRedis()
	jwt := token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	sessions, err := authservice.New(identity, jwt, revoked,
		authservice.WithLogger(log),
		authservice.WithAuditPublisher(auditor),
	)
	if err != nil {
		return err
	}

	requests, err := verificationservice.New(st.requests, adapters.NewIdentityAdapter(identity),
		letter.NewPDFRenderer(), st.requestsTx,
		verificationservice.WithLogger(log),
		verificationservice.WithAuditPublisher(auditor),
		verificationservice.WithMetrics(verificationmetrics.New()),
		verificationservice.WithLocation(loc),
	)
	if err != nil {
		return err
	}

	requireAuth := auth.RequireAuth(jwt, identity, log)
	router := httptransport.NewRouter(httptransport.Config{
		Logger:  log,
		Metrics: m,
		Checks:  st.checks,
		Modules: []httptransport.Module{
			authhandler.New(sessions, log),
			identityhandler.New(identity, requireAuth, log),
			verificationhandler.New(requests, requireAuth, log),
		},
	})

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler())

	api := httpserver.New(cfg.Addr, router)
	internal := httpserver.New(cfg.MetricsAddr, metricsRouter)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting huduma", "addr", cfg.Addr, "timezone", loc.String())
		return httpserver.Run(ctx, api, shutdownTimeout)
	})
	g.Go(func() error {
		log.Info("starting metrics listener", "addr", cfg.MetricsAddr)
		return httpserver.Run(ctx, internal, shutdownTimeout)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// revocationStore picks Redis when configured. Redis calls go through a
// circuit breaker.
func revocationStore(
	ctx context.Context,
	cfg config.RedisConfig,
	m *metrics.Metrics,
	checks map[string]httptransport.HealthCheck,
	log *slog.Logger,
) (authservice.RevocationStore, func(), error) {
	client, err := redisclient.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set, using in-memory revocation list")
		return revocation.NewInMemory(), func() {}, nil
	}
	checks["redis"] = client.Health

	breaker := circuit.New("revocation-redis",
		circuit.WithStateChange(func(name, from, to string) {
			log.Warn("circuit breaker state change", "breaker", name, "from", from, "to", to)
		}),
	)
	return revocation.NewRedis(client.Client,
		revocation.WithBreaker(breaker),
		revocation.WithLatency(m.RevocationLatency),
	), func() { _ = client.Close() }, nil
}
