package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/volunhub/volunhub/handler"
	"github.com/volunhub/volunhub/modules/auth"
	"github.com/volunhub/volunhub/modules/profile"
	"github.com/volunhub/volunhub/modules/project"
	"github.com/volunhub/volunhub/pkg/clientip"
	"github.com/volunhub/volunhub/pkg/config"
	"github.com/volunhub/volunhub/pkg/cookie"
	"github.com/volunhub/volunhub/pkg/email"
	"github.com/volunhub/volunhub/pkg/environment"
	"github.com/volunhub/volunhub/pkg/httpserver"
	"github.com/volunhub/volunhub/pkg/logger"
	"github.com/volunhub/volunhub/pkg/mongo"
	"github.com/volunhub/volunhub/pkg/ratelimiter"
	"github.com/volunhub/volunhub/pkg/redis"
	"github.com/volunhub/volunhub/pkg/requestid"
	"github.com/volunhub/volunhub/pkg/session"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`

	// Signup covers POST /signup and the resend route; login covers
	// POST /login. Both are per client IP per route, refilled per minute.
	SignupRatePerMinute int `env:"RATE_SIGNUP_PER_MINUTE" envDefault:"5"`
	LoginRatePerMinute  int `env:"RATE_LOGIN_PER_MINUTE" envDefault:"10"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "server exited:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var appCfg appConfig
	config.MustLoad(&appCfg)
	env := environment.Parse(appCfg.Environment)

	log := logger.New(
		logger.WithEnvironment(env, "volunhub"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)
	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	accounts := auth.NewMongoStorage(db)
	projects := project.NewMongoStorage(db)
	sessions := session.NewMongoStore(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":    accounts.EnsureIndexes,
		"projects": projects.EnsureIndexes,
		"sessions": sessions.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	var cookieCfg cookie.Config
	config.MustLoad(&cookieCfg)
	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}

	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)
	sessionMgr := session.NewFromConfig(sessionCfg,
		session.WithStore(sessions),
		session.WithCookieManager(cookies),
	)

	sender := newEmailSender(appCfg, log)

	healthchecks := []func(context.Context) error{mongo.Healthcheck(db.Client())}

	// Redis backs the rate limit buckets when configured; otherwise each
	// instance keeps its own in-memory buckets.
	var limiterStore ratelimiter.Store
	if os.Getenv("REDIS_URL") != "" {
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)
		redisClient, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		healthchecks = append(healthchecks, redis.Healthcheck(redisClient))
		limiterStore = ratelimiter.NewRedisStore(redisClient, "")
	} else {
		memStore := ratelimiter.NewMemoryStore()
		defer memStore.Close()
		limiterStore = memStore
	}

	signupLimit, err := rateLimit(limiterStore, appCfg.SignupRatePerMinute)
	if err != nil {
		return fmt.Errorf("signup rate limit: %w", err)
	}
	loginLimit, err := rateLimit(limiterStore, appCfg.LoginRatePerMinute)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}

	var authCfg auth.Config
	config.MustLoad(&authCfg)
	authSvc := auth.NewService(authCfg, accounts, sender, sessionMgr, auth.WithLogger(log))
	profileSvc := profile.NewService(accounts, profile.WithLogger(log))
	projectSvc := project.NewService(projects, project.WithLogger(log))

	errorHandler := handler.NewErrorHandler[handler.Context](log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, healthchecks...))

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			users.Mount("/profile", sessionMgr.RequireAuth(
				profileSvc.Handle(profile.RouterOptions{ErrorHandler: errorHandler})))
			users.Mount("/", authSvc.Handle(auth.RouterOptions{
				ErrorHandler:    errorHandler,
				SignupRateLimit: signupLimit,
				LoginRateLimit:  loginLimit,
			}))
		})
		api.Mount("/projects", projectSvc.Handle(project.RouterOptions{
			ErrorHandler: errorHandler,
			RequireAuth:  sessionMgr.RequireAuth,
		}))
	})

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	server := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	return server.Run(ctx, r)
}

// newEmailSender picks Postmark when its credentials are configured and
// falls back to the file-based development sender otherwise.
func newEmailSender(appCfg appConfig, log *slog.Logger) email.EmailSender {
	var emailCfg email.Config
	if err := config.Load(&emailCfg); err != nil || emailCfg.PostmarkServerToken == "" {
		log.Info("using file-based email sender", "dir", appCfg.EmailDevDir)
		return email.NewDevSender(appCfg.EmailDevDir)
	}
	return email.MustNewPostmarkClient(emailCfg)
}

// rateLimit builds a per-client-IP, per-route token bucket middleware.
func rateLimit(store ratelimiter.Store, perMinute int) (func(http.Handler) http.Handler, error) {
	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       perMinute,
		RefillRate:     perMinute,
		RefillInterval: time.Minute,
	})
	if err != nil {
		return nil, err
	}

	key := ratelimiter.Composite(
		func(r *http.Request) string { return clientip.FromContext(r.Context()) },
		func(r *http.Request) string { return r.URL.Path },
	)
	return ratelimiter.Middleware(bucket, key), nil
}
