package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/climacrux/cdr-platform/internal/config"
	"github.com/climacrux/cdr-platform/internal/database"
	"github.com/climacrux/cdr-platform/internal/handler"
	"github.com/climacrux/cdr-platform/internal/metrics"
	"github.com/climacrux/cdr-platform/internal/middleware"
	"github.com/climacrux/cdr-platform/internal/pricing"
	"github.com/climacrux/cdr-platform/internal/repository"
	"github.com/climacrux/cdr-platform/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	gin.SetMode(cfg.GinMode)

	fees, err := pricing.NewFeeCalculator(cfg.FeePercentage)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fee percentage")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := newApp(pool, fees, m)

	if cfg.SeedData {
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
		if err := deps.bootstrapDevKey(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to create development api key")
		}
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(m.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	handler.SetupSwagger(router)
	handler.RegisterRoutes(router, deps.handlers, middleware.APIKeyAuth(deps.keys, cfg.APIKeyScheme))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		return serve(srv)
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.MetricsPort).Msg("starting metrics server")
		return serve(metricsSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server exited")
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type app struct {
	keys     *service.APIKeyService
	orgs     *repository.OrganisationRepository
	handlers handler.Handlers
}

func newApp(pool *pgxpool.Pool, fees pricing.FeeCalculator, m *metrics.Metrics) *app {
	rateRepo := repository.NewRateRepository(pool)
	partnerRepo := repository.NewPartnerRepository(pool)
	requestRepo := repository.NewRemovalRequestRepository(pool)
	keyRepo := repository.NewAPIKeyRepository(pool)
	orgRepo := repository.NewOrganisationRepository(pool)
	certRepo := repository.NewCertificateRepository(pool)

	engine := pricing.NewEngine(rateRepo, partnerRepo, fees)

	keyService := service.NewAPIKeyService(keyRepo)
	pricingService := service.NewPricingService(engine, partnerRepo, m)
	purchaseService := service.NewPurchaseService(engine, requestRepo, m)
	requestService := service.NewRequestService(requestRepo)
	certService := service.NewCertificateService(certRepo)
	orgService := service.NewOrganisationService(orgRepo)

	return &app{
		keys: keyService,
		orgs: orgRepo,
		handlers: handler.Handlers{
			Health:       handler.NewHealthHandler(pool),
			Pricing:      handler.NewPricingHandler(pricingService),
			Purchase:     handler.NewPurchaseHandler(purchaseService),
			Requests:     handler.NewRequestHandler(requestService),
			Certificates: handler.NewCertificateHandler(certService),
			Organisation: handler.NewOrganisationHandler(orgService, keyService),
		},
	}
}

// bootstrapDevKey issues a test key for the seeded organisation when it has
// none, so a fresh local stack can be called straight away.
func (a *app) bootstrapDevKey(ctx context.Context) error {
	org, err := a.orgs.FindByShortID(ctx, database.DefaultOrganisationShortID)
	if errors.Is(err, repository.ErrOrganisationNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	existing, err := a.keys.List(ctx, org.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	_, raw, err := a.keys.Create(ctx, org.ID, "development", true)
	if err != nil {
		return err
	}
	log.Warn().Str("api_key", raw).Msg("created development api key; it will not be shown again")
	return nil
}
