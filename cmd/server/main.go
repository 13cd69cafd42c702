package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/jackc/pgx/v5/pgxpool"

	migrations "github.com/verzel/leadflow/db"
	"github.com/verzel/leadflow/internal/accounts"
	"github.com/verzel/leadflow/internal/boot"
	"github.com/verzel/leadflow/internal/calendar"
	"github.com/verzel/leadflow/internal/config"
	"github.com/verzel/leadflow/internal/conversation"
	"github.com/verzel/leadflow/internal/crm"
	"github.com/verzel/leadflow/internal/db"
	dbsqlc "github.com/verzel/leadflow/internal/db/sqlc"
	"github.com/verzel/leadflow/internal/handlers"
	"github.com/verzel/leadflow/internal/lead"
	"github.com/verzel/leadflow/internal/llm"
	"github.com/verzel/leadflow/internal/logger"
	"github.com/verzel/leadflow/internal/notify"
	"github.com/verzel/leadflow/internal/server"
	"github.com/verzel/leadflow/internal/version"
)

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrations(os.Args[2:])
		return
	}

	fx.New(
		fx.Provide(
			provideConfig,
			boot.ProvideRuntimeConfig,
			provideLogger,

			provideDBConn,
			provideDBQueries,

			accounts.NewService,
			lead.NewService,
			provideLLMClient,
			provideTokenStore,
			provideCalendarClient,
			provideCRMSyncer,
			provideReconciler,
			provideMailer,
			provideConversationService,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(handlers.NewChatHandler),
			provideServerHandler(handlers.NewLeadsHandler),
			provideServerHandler(handlers.NewCalendarHandler),

			provideServer,
		),
		fx.Invoke(
			startReconciler,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func runMigrations(args []string) {
	cfg, err := provideConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := provideLogger(cfg)

	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}
	migrationsFS, err := fs.Sub(migrations.MigrationsFS, "migrations")
	if err != nil {
		log.Error("migrations fs", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.RunMigrate(log, cfg.Postgres, migrationsFS, command, args); err != nil {
		log.Error("migrate failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

func provideLLMClient(log *slog.Logger, cfg config.Config) (*llm.Client, error) {
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	return llm.NewClient(log, cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, timeout, cfg.LLM.RequestsPerMin)
}

func provideTokenStore(log *slog.Logger, queries *dbsqlc.Queries, cfg config.Config) *calendar.TokenStore {
	return calendar.NewTokenStore(log, queries, cfg.Calendar)
}

func provideCalendarClient(log *slog.Logger, tokens *calendar.TokenStore, cfg config.Config) *calendar.Client {
	return calendar.NewClient(log, tokens, cfg.Calendar)
}

func provideCRMSyncer(log *slog.Logger, cfg config.Config) (*crm.Syncer, error) {
	client, err := crm.NewClient(log, cfg.CRM)
	if err != nil {
		return nil, fmt.Errorf("crm client: %w", err)
	}
	return crm.NewSyncer(log, client), nil
}

func provideReconciler(log *slog.Logger, queries *dbsqlc.Queries, syncer *crm.Syncer, cfg config.Config) *crm.Reconciler {
	return crm.NewReconciler(log, queries, syncer, cfg.CRM.ResyncPattern)
}

func provideMailer(log *slog.Logger, cfg config.Config) *notify.Mailer {
	return notify.NewMailer(log, cfg.Notify)
}

func provideConversationService(
	log *slog.Logger,
	queries *dbsqlc.Queries,
	llmClient *llm.Client,
	calendarClient *calendar.Client,
	syncer *crm.Syncer,
	leadService *lead.Service,
	mailer *notify.Mailer,
	cfg config.Config,
) (*conversation.Service, error) {
	location, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	return conversation.NewService(
		log,
		conversation.NewStore(queries),
		llmClient,
		llmClient,
		calendarClient,
		syncer,
		leadService,
		mailer,
		location,
		cfg.Calendar.HorizonDays,
	), nil
}

func provideAuthHandler(log *slog.Logger, accountService *accounts.Service, runtimeConfig *boot.RuntimeConfig) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, accountService, runtimeConfig.JwtSecret, runtimeConfig.JwtExpiresIn)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	RuntimeConfig  *boot.RuntimeConfig
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.RuntimeConfig.ServerAddr, params.RuntimeConfig.JwtSecret, params.ServerHandlers...)
}

func startReconciler(lc fx.Lifecycle, reconciler *crm.Reconciler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return reconciler.Start()
		},
		OnStop: func(ctx context.Context) error {
			reconciler.Stop()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	srv *server.Server,
	shutdowner fx.Shutdowner,
	cfg config.Config,
	accountService *accounts.Service,
) {
	fmt.Printf("Starting leadflow server %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := accountService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
				return err
			}

			go func() {
				if err := srv.Start(); err != nil { // block until server is stopped
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown() // shutdown the application if the server fails to start
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			// graceful shutdown
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
