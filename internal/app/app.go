package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sourcegraph/conc"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/esports-hub/internal/config"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/realtime"
	cacherepo "github.com/riskibarqy/esports-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/esports-hub/internal/interfaces/httpapi"
	"github.com/riskibarqy/esports-hub/internal/platform/cache"
	idgen "github.com/riskibarqy/esports-hub/internal/platform/id"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"github.com/riskibarqy/esports-hub/internal/platform/resilience"
	"github.com/riskibarqy/esports-hub/internal/usecase"
)

const publisherDrainTimeout = 5 * time.Second

// Shutdown releases what NewHTTPServer started. Call it after the HTTP
// server has stopped accepting requests.
type Shutdown func(ctx context.Context) error

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, Shutdown, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		repositories storage.Store = store
		invalidator  usecase.CacheInvalidator
	)
	if cfg.CacheEnabled {
		readCache := cache.NewStore(cfg.CacheTTL)
		repositories = cacherepo.NewStore(store, readCache)
		invalidator = readCache
	}

	hub := realtime.NewHub(cfg.CORSAllowedOrigins, logger)
	publisher, err := realtime.NewAsyncPublisher(hub, cfg.NotifyWorkers, logger.Named("notify"))
	if err != nil {
		hub.Close()
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("create notification publisher: %w", err)
	}

	matchSvc := usecase.NewMatchService(repositories, publisher, logger)
	eventSvc := usecase.NewEventService(repositories, invalidator, publisher, logger)
	ingestionSvc := usecase.NewIngestionService(
		repositories,
		idgen.NewUUIDGenerator(),
		idgen.NewRequestIDGenerator(),
		publisher,
		logger,
		cfg.IngestMaxBatch,
	)
	voteSvc := usecase.NewVoteService(repositories, logger)

	verifier := jwtauth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
	if cfg.AuthJWTSecret == "" {
		logger.Warn("AUTH_JWT_SECRET empty, authenticated routes will return 503")
	}

	handler := httpapi.NewHandler(matchSvc, eventSvc, ingestionSvc, voteSvc, hub, logger)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.ServiceName,
		cfg.CORSAllowedOrigins,
		cfg.ExposeErrorDetail(),
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.WithoutCancel(ctx))
	var background conc.WaitGroup
	if cfg.AutoPromoteEnabled {
		scheduler := usecase.NewEventScheduler(eventSvc, cfg.AutoPromoteInterval, logger.Named("scheduler"))
		background.Go(func() {
			scheduler.Run(schedulerCtx)
		})
	} else {
		logger.Info("event auto promote disabled", "reason", "EVENT_AUTO_PROMOTE_ENABLED=false")
	}

	shutdown := func(ctx context.Context) error {
		stopScheduler()
		background.Wait()

		var errs []error
		if err := publisher.Close(publisherDrainTimeout); err != nil {
			errs = append(errs, fmt.Errorf("close notification publisher: %w", err))
		}
		hub.Close()
		if db != nil {
			if err := db.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
		return errors.Join(errs...)
	}

	return server, shutdown, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (storage.Store, *sqlx.DB, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		store := memory.NewStore()
		store.Load(memory.DemoSeed(time.Now().UTC()))
		logger.Info("storage ready", "driver", config.StorageMemory)
		return store, nil, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Enabled:          cfg.DBCircuitEnabled,
		FailureThreshold: cfg.DBCircuitFailureCount,
		OpenTimeout:      cfg.DBCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.DBCircuitHalfOpenMaxReq,
	})
	store := postgres.NewStore(db, breaker)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		closeDB(db, logger)
		return nil, nil, err
	}
	if err := postgres.BootstrapSeed(ctx, store, time.Now().UTC()); err != nil {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("storage ready",
		"driver", config.StoragePostgres,
		"db_name", dbNameFromURL(cfg.DBURL),
		"max_open_conns", cfg.DBMaxOpenConns,
	)
	return store, db, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(
		"postgres",
		cfg.DatabaseURL(),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
