package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	config "github.com/alvsuut-buddy/Smart-Charity/config"
	controllers "github.com/alvsuut-buddy/Smart-Charity/controllers"
	metrics "github.com/alvsuut-buddy/Smart-Charity/metrics"
	routes "github.com/alvsuut-buddy/Smart-Charity/routes"
	services "github.com/alvsuut-buddy/Smart-Charity/services"
	store "github.com/alvsuut-buddy/Smart-Charity/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := config.NewLogger("production")
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	log := config.NewLogger(cfg.AppEnv).With().Str("app", cfg.AppName).Logger()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, history, health, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open record store")
	}

	m := metrics.New()
	ingest := services.NewIngestor(ledger, history, time.Now, log).Observe(m)
	agg := services.NewAggregator(ledger, history, cfg.Location)

	app := &controllers.App{
		Cfg:     cfg,
		Reports: services.NewReports(ingest, agg, time.Now, log),
		Display: services.NewDisplayBoard(services.DefaultDisplayMessage),
		Health:  health,
		Log:     log,
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", cfg.Port),
		Handler:           routes.NewRouter(app, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.StoreBackend).
			Str("environment", cfg.AppEnv).
			Str("timezone", cfg.Location.String()).
			Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if cfg.MongoClient != nil {
		if err := cfg.MongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
			os.Exit(1)
		}
		log.Info().Msg("mongodb connection closed")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Ledger, store.History, store.Health, error) {
	if cfg.StoreBackend == config.BackendMemory {
		log.Warn().Msg("using in-memory store, donations are lost on restart")
		return store.NewMemoryLedger(), store.NewMemoryHistory(), store.MemoryHealth{}, nil
	}

	log.Info().Str("database", cfg.DBName).Msg("connecting to mongodb")
	health := store.NewMongoHealth(log)
	if err := config.ConnectMongo(ctx, cfg, health); err != nil {
		return nil, nil, nil, err
	}
	log.Info().Str("database", cfg.DBName).Msg("connected to mongodb")

	db := cfg.Database()
	ledger, history := store.NewMongoLedger(db), store.NewMongoHistory(db)

	idxCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	for _, ensure := range []func(context.Context) error{ledger.EnsureIndexes, history.EnsureIndexes} {
		if err := ensure(idxCtx); err != nil {
			log.Warn().Err(err).Msg("could not create indexes")
		}
	}
	return ledger, history, health, nil
}
