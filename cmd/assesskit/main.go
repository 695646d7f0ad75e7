package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/assesskit/assesskit/modules/account"
	"github.com/assesskit/assesskit/modules/assessment"
	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/clientip"
	"github.com/assesskit/assesskit/pkg/config"
	"github.com/assesskit/assesskit/pkg/demoguard"
	"github.com/assesskit/assesskit/pkg/environment"
	"github.com/assesskit/assesskit/pkg/httpserver"
	"github.com/assesskit/assesskit/pkg/identity"
	"github.com/assesskit/assesskit/pkg/logger"
	"github.com/assesskit/assesskit/pkg/pg"
	"github.com/assesskit/assesskit/pkg/ratelimit"
	"github.com/assesskit/assesskit/pkg/rbac"
	"github.com/assesskit/assesskit/pkg/redis"
	"github.com/assesskit/assesskit/pkg/requestid"
	"github.com/assesskit/assesskit/pkg/session"
	"github.com/assesskit/assesskit/pkg/tenantscope"
)

func main() {
	var (
		envCfg     environment.Config
		httpCfg    httpserver.Config
		pgCfg      pg.Config
		redisCfg   redis.Config
		sessionCfg session.Config
	)
	config.MustLoad(&envCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&sessionCfg)

	log := logger.New(
		logger.WithProduction("assesskit"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx := context.Background()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "postgres connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "migrations failed", logger.Error(err))
		os.Exit(1)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "redis connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	sessions := session.New(
		session.WithStore(session.NewRedisStore(redisClient)),
		session.WithConfig(sessionCfg),
	)
	defer func() { _ = sessions.Close() }()

	users := identity.NewPGStore(pool)

	auditLog := audit.NewLogger(audit.NewPGStorage(pool),
		audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
			scope, ok := tenantscope.FromContext(ctx)
			if !ok {
				return "", false
			}
			return scope.CustomerKey(), true
		}),
		audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
			id, ok := identity.FromContext(ctx)
			if !ok {
				return "", false
			}
			return strconv.FormatInt(id.UserID, 10), true
		}),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
		audit.WithEnvironmentExtractor(func(ctx context.Context) (string, bool) {
			return string(environment.FromContext(ctx)), true
		}),
	)

	authorizer, err := rbac.NewAuthorizer(ctx, rbac.NewStaticSource(rbac.DefaultMatrix()))
	if err != nil {
		log.ErrorContext(ctx, "authorizer init failed", logger.Error(err))
		os.Exit(1)
	}

	resolver := identity.NewResolver(users,
		identity.WithSessionUnbinder(sessions),
		identity.WithLogger(log),
		identity.WithReadOnly(envCfg.ReadOnly),
	)

	var guard *demoguard.Guard
	if envCfg.IsDemo() {
		guard = demoguard.New(envCfg.DemoTenantID,
			demoguard.WithAuditLogger(auditLog),
			demoguard.WithLogger(log),
			demoguard.WithDatabaseInfo(demoguard.DatabaseInfo{
				ProductionFlag: pgCfg.ProductionDatabase,
				Host:           pg.Host(pgCfg),
			}),
		)
	}

	api := assessment.Router(assessment.Deps{
		Sessions:   sessions,
		Resolver:   resolver,
		Authorizer: authorizer,
		Cases:      assessment.NewPGCaseStore(pool),
		Users:      users,
		Settings:   assessment.NewSettings(nil),
		Guard:      guard,
		Audit:      auditLog,
		Env:        envCfg.Environment(),
		Log:        log,
	})

	accountSvc := account.NewService(users, sessions, account.WithLogger(log))

	// Credential stuffing protection: per-IP token bucket shared across
	// replicas through Redis.
	loginLimiter, err := ratelimit.NewBucket(ratelimit.NewRedisStore(redisClient), ratelimit.Config{
		Capacity:       10,
		RefillRate:     1,
		RefillInterval: 30 * time.Second,
	})
	if err != nil {
		log.ErrorContext(ctx, "rate limiter init failed", logger.Error(err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))
	r.Route("/auth", func(ar chi.Router) {
		ar.Use(ratelimit.Middleware(loginLimiter, clientip.Get))
		ar.Mount("/", accountSvc.Router())
	})
	r.Mount("/", api)

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
}
