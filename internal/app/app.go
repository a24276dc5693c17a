package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"church-admin-go/internal/config"
	"church-admin-go/internal/db"
	assignmentdomain "church-admin-go/internal/domain/assignment"
	churchdomain "church-admin-go/internal/domain/church"
	churchuserdomain "church-admin-go/internal/domain/churchuser"
	memberdomain "church-admin-go/internal/domain/member"
	preferencesdomain "church-admin-go/internal/domain/preferences"
	reportsdomain "church-admin-go/internal/domain/reports"
	"church-admin-go/internal/events"
	"church-admin-go/internal/identity"
	"church-admin-go/internal/identity/local"
	"church-admin-go/internal/identity/supabase"
	"church-admin-go/internal/metrics"
	"church-admin-go/internal/ratelimit"
	"church-admin-go/internal/repository/inmemory"
	assignmentrepo "church-admin-go/internal/repository/postgres/assignment"
	churchrepo "church-admin-go/internal/repository/postgres/church"
	churchuserrepo "church-admin-go/internal/repository/postgres/churchuser"
	identityrepo "church-admin-go/internal/repository/postgres/identity"
	memberrepo "church-admin-go/internal/repository/postgres/member"
	preferencesrepo "church-admin-go/internal/repository/postgres/preferences"
	reportsrepo "church-admin-go/internal/repository/postgres/reports"
	"church-admin-go/internal/seed"
	"church-admin-go/internal/transport/httpserver"
	"church-admin-go/internal/transport/httpserver/handler"
	"church-admin-go/internal/transport/httpserver/handler/assignments"
	"church-admin-go/internal/transport/httpserver/handler/auth"
	"church-admin-go/internal/transport/httpserver/handler/churches"
	"church-admin-go/internal/transport/httpserver/handler/common"
	"church-admin-go/internal/transport/httpserver/handler/members"
	"church-admin-go/internal/transport/httpserver/handler/pastors"
	"church-admin-go/internal/transport/httpserver/handler/preferences"
	"church-admin-go/internal/transport/httpserver/handler/reports"
	authmw "church-admin-go/internal/transport/httpserver/middleware"
	"church-admin-go/pkg/logger"
	"church-admin-go/pkg/retry"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type eventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
	Close() error
}

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	events     eventPublisher
	redis      *redis.Client
	seeder     *seed.Seeder
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(dbConn, log); err != nil {
			closeDB(dbConn)
			return nil, err
		}
	}

	return Build(cfg, dbConn, log)
}

// Build wires every service on top of an open database. The returned App owns
// dbConn and closes it.
func Build(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, db: dbConn, events: events.Nop{}, log: log}
	if err := a.build(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build() error {
	cfg := a.cfg
	log := a.log

	var recorder metrics.Recorder = metrics.Nop{}
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		collector := metrics.NewPrometheus("")
		recorder = collector
		metricsHandler = collector.Handler()
	}

	if cfg.NATS.URL != "" {
		log.Info("app: connecting to nats", "url", cfg.NATS.URL)
		publisher, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, log)
		if err != nil {
			return err
		}
		a.events = publisher
	}

	var registrationLimit authmw.Limiter
	if cfg.Redis.Addr != "" {
		log.Info("app: initializing rate limiter", "addr", cfg.Redis.Addr)
		client, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			return err
		}
		a.redis = client
		limiter, err := ratelimit.NewFixedWindowLimiter(client, cfg.Redis.RateLimitPrefix+":registration", cfg.Redis.RegistrationLimit, cfg.Redis.RegistrationWindow)
		if err != nil {
			return err
		}
		registrationLimit = limiter
	}

	provider, err := newIdentityProvider(cfg, a.db)
	if err != nil {
		return err
	}

	policy := retry.Policy{
		MaxRetries:     cfg.Store.RetryMax,
		BaseDelay:      cfg.Store.RetryBaseDelay,
		AttemptTimeout: cfg.Store.AttemptTimeout,
		OnRetry: func(op string, attempt int, err error) {
			recorder.RetryAttempted(op, attempt, err)
			log.Debug("store: retrying read", "op", op, "attempt", attempt, "err", err)
		},
	}

	churchUsers := churchuserdomain.NewService(churchuserrepo.NewPostgres(a.db), log,
		churchuserdomain.WithCache(inmemory.NewInMemoryChurchUserCache(), cfg.Auth.UserCacheTTL),
		churchuserdomain.WithRetryPolicy(policy),
		churchuserdomain.WithEvents(a.events),
		churchuserdomain.WithIdentities(provider),
		churchuserdomain.WithMinPasswordLength(cfg.Auth.MinPasswordLen),
	)
	churchService := churchdomain.NewService(churchrepo.NewPostgres(a.db))
	assignmentService := assignmentdomain.NewService(assignmentrepo.NewPostgres(a.db), provider, log,
		assignmentdomain.WithRetryPolicy(policy),
		assignmentdomain.WithEvents(a.events),
		assignmentdomain.WithMetrics(recorder),
		assignmentdomain.WithMinPasswordLength(cfg.Auth.MinPasswordLen),
		assignmentdomain.WithJoinParallelism(cfg.Store.JoinParallel),
		assignmentdomain.WithBindingHook(churchUsers.Invalidate),
	)
	memberService := memberdomain.NewService(memberrepo.NewPostgres(a.db))
	reportService := reportsdomain.NewService(reportsrepo.NewPostgres(a.db))
	preferenceService := preferencesdomain.NewService(preferencesrepo.NewPostgres(a.db))

	a.seeder = seed.NewSeeder(provider, churchUsers, churchService, assignmentService, log)

	handlers := &handler.Handlers{
		Common:      common.New(dbPinger{db: a.db}, log),
		Auth:        auth.New(provider, churchUsers, log),
		Assignments: assignments.New(assignmentService, log),
		Pastors:     pastors.New(churchUsers, log),
		Churches:    churches.New(churchService, log),
		Members:     members.New(memberService, log),
		Reports:     reports.New(reportService, log),
		Preferences: preferences.New(preferenceService, log),
	}

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, httpserver.Deps{
		Auth:               authmw.NewAuth(provider, churchUsers, log),
		RegistrationLimit:  registrationLimit,
		Metrics:            recorder,
		MetricsHandler:     metricsHandler,
		LocalLoginsEnabled: cfg.Auth.Provider == config.AuthProviderLocal,
	}, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router, a.log)
	return nil
}

func newIdentityProvider(cfg config.Config, dbConn *gorm.DB) (identity.Provider, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderSupabase:
		client, err := supabase.New(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.AuthProviderLocal:
		provider, err := local.New(identityrepo.NewPostgres(dbConn), local.Config{
			Secret:   cfg.Auth.JWTSecret,
			Issuer:   cfg.Auth.JWTIssuer,
			TokenTTL: cfg.Auth.TokenTTL,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", identity.ErrNotConfigured, cfg.Auth.Provider)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Seeder() *seed.Seeder {
	return a.seeder
}

func (a *App) Close() error {
	var errs []error
	if a.events != nil {
		errs = append(errs, a.events.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
