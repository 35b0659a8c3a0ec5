package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gdsc/eventhub/internal/api"
	"github.com/gdsc/eventhub/internal/api/handler"
	"github.com/gdsc/eventhub/internal/core/ports"
	"github.com/gdsc/eventhub/internal/core/service"
	"github.com/gdsc/eventhub/internal/infrastructure/db/memory"
	mongostore "github.com/gdsc/eventhub/internal/infrastructure/db/mongo"
	redisstore "github.com/gdsc/eventhub/internal/infrastructure/db/redis"
	"github.com/gdsc/eventhub/internal/infrastructure/security"
	"github.com/gdsc/eventhub/internal/pkg/config"
	"github.com/gdsc/eventhub/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var inMemory bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the eventhub API server",
		Long: `Run the eventhub API server. Configuration comes from the environment
and an optional .env file in the working directory.

  JWT_SECRET is required. REDIS_ADDR enables token revocation on logout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx, nil)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  !cfg.IsProduction(),
				Service: "eventhub",
			})
			return serve(logger.WithContext(ctx, log), cfg, inMemory)
		},
	}

	cmd.Flags().BoolVar(&inMemory, "memory", false, "keep users and events in memory instead of MongoDB")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, cfg *config.Config, inMemory bool) error {
	log := logger.FromContext(ctx)

	st, err := openStores(ctx, cfg, inMemory, log)
	if err != nil {
		return err
	}
	defer st.close()

	tokens, err := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	authSvc := service.NewAuthService(
		st.users,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		tokens,
		st.revoked,
		log.With().Str("component", "auth").Logger(),
	)
	eventSvc := service.NewEventService(st.events, log.With().Str("component", "events").Logger())

	e := api.NewRouter(api.Deps{
		Auth:          authSvc,
		Events:        eventSvc,
		Checks:        st.checks,
		CORSOrigins:   cfg.CORSOrigins,
		Log:           log,
		Metrics:       cfg.Metrics,
		Production:    cfg.IsProduction(),
		AuthRateLimit: cfg.Auth.RateLimit,
		AuthRateBurst: cfg.Auth.RateBurst,
	})
	e.Server.ReadHeaderTimeout = 10 * time.Second

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Bool("memory", inMemory).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type stores struct {
	users   ports.UserRepository
	events  ports.EventRepository
	revoked ports.TokenRevocationList
	checks  map[string]handler.Check
	closers []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, inMemory bool, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.Check{}}

	if inMemory {
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		st.users = memory.NewUserRepository()
		st.events = memory.NewEventRepository()
	} else {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		})

		users := mongostore.NewUserRepository(db)
		events := mongostore.NewEventRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, events); err != nil {
			st.close()
			return nil, err
		}
		st.users, st.events = users, events
		st.checks["mongo"] = handler.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	}

	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, logout will not revoke tokens")
		return st, nil
	}
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		st.close()
		return nil, err
	}
	st.closers = append(st.closers, func() { _ = rdb.Close() })
	st.revoked = redisstore.NewRevocationList(rdb)
	st.checks["redis"] = handler.RedisCheck(rdb)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return st, nil
}
