package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/ledger"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const bootstrapTimeout = 15 * time.Second

type repositories struct {
	teams   team.Repository
	matches match.Repository
	ledger  ledger.Repository
	close   func() error
}

// NewHTTPServer wires the store, services and router. The returned cleanup
// releases the database pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	matchSvc := usecase.NewMatchService(
		repos.teams,
		repos.matches,
		repos.ledger,
		idgen.NewUUIDGenerator(),
		usecase.MatchServiceConfig{
			LedgerRetention: cfg.LedgerRetention,
			RolloverWorkers: cfg.RolloverWorkers,
		},
		logger,
	)
	// Team reads and writes share one cache so writes drop stale entries. The
	// match lifecycle reads schedules from the store directly.
	cachedTeams := cache.NewTeamRepository(repos.teams, cfg.TeamCacheTTL)
	teamSvc := usecase.NewTeamService(cachedTeams, matchSvc, logger)
	statsSvc := usecase.NewStatsService(cachedTeams, repos.matches, cfg.StatsMinPlayers)

	handler := httpapi.NewHandler(matchSvc, teamSvc, statsSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if !cfg.UsesPostgres() {
		var seed []team.Team
		if cfg.DBSeedDemo {
			seed = memory.SeedTeams(time.Now())
		}
		logger.Info("using in-memory store", "seeded_teams", len(seed))
		return repositories{
			teams:   memory.NewTeamRepository(seed),
			matches: memory.NewMatchRepository(),
			ledger:  memory.NewLedgerRepository(),
			close:   func() error { return nil },
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}

	if cfg.DBSeedDemo {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()
		if err := postgres.BootstrapSeed(ctx, db, memory.SeedTeams(time.Now())); err != nil {
			_ = db.Close()
			return repositories{}, errors.Wrap(err, "bootstrap demo seed")
		}
	}

	opts := postgres.Options{
		QueryTimeout: cfg.StoreTimeout,
		Breaker:      resilience.NewCircuitBreakerFromConfig(cfg.StoreCircuit),
	}
	logger.Info("using postgres store",
		"db_name", dbNameFromURL(cfg.DBURL),
		"query_timeout", cfg.StoreTimeout.String(),
		"circuit_enabled", cfg.StoreCircuit.Enabled,
	)

	return repositories{
		teams:   postgres.NewTeamRepository(db, opts),
		matches: postgres.NewMatchRepository(db, opts),
		ledger:  postgres.NewLedgerRepository(db, opts),
		close:   db.Close,
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(
		"postgres",
		normalizeDBURL(cfg.DBURL, cfg.ServiceName),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	return db, nil
}
