package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/auth"
	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/config"
	infraauth "github.com/diego64/help-me-sub001/internal/infrastructure/auth"
	"github.com/diego64/help-me-sub001/internal/infrastructure/cache"
	httprouter "github.com/diego64/help-me-sub001/internal/infrastructure/http"
	"github.com/diego64/help-me-sub001/internal/infrastructure/http/handlers"
	"github.com/diego64/help-me-sub001/internal/infrastructure/http/middleware"
	"github.com/diego64/help-me-sub001/internal/infrastructure/lockout"
	"github.com/diego64/help-me-sub001/internal/infrastructure/persistence/postgres"
	"github.com/diego64/help-me-sub001/internal/infrastructure/revocation"
	"github.com/diego64/help-me-sub001/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	// Blacklist and throttle state live in redis when available, so
	// revocations and attempt counters survive restarts and are shared
	// across replicas. The in-memory store is a single-node fallback.
	var cacheStore ports.CacheStore
	if redisClient != nil {
		cacheStore = cache.NewRedisStore(redisClient)
	} else {
		log.Warn().Msg("using in-memory cache; revocations and login throttling are per-process")
		cacheStore = cache.NewMemoryStore()
	}

	hasher := security.NewPBKDF2Hasher(cfg.Password.Iterations, log)

	tokenService, err := infraauth.NewTokenService(infraauth.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configure token service")
	}

	userRepo := postgres.NewUserRepository(pool)
	throttle := lockout.NewStore(cacheStore, cfg.Throttle.MaxAttempts, cfg.Throttle.Window, log)
	revocationList := revocation.NewStore(cacheStore, log)

	loginUC := auth.NewLogin(userRepo, hasher, tokenService, throttle, log)
	refreshUC := auth.NewRefresh(userRepo, tokenService, log)
	logoutUC := auth.NewLogout(userRepo, tokenService, revocationList, log)

	authHandler := handlers.NewAuthHandler(loginUC, refreshUC, logoutUC, userRepo, log)
	healthHandler := handlers.NewHealthHandler(pool, redisClient)
	authGate := middleware.NewAuthGate(tokenService, revocationList, log)
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Server.Development))

	var ipLimit func(http.Handler) http.Handler
	if cfg.Server.RatePerIP != "" {
		ipLimit, err = middleware.NewIPRateLimiter(cfg.Server.RatePerIP)
		if err != nil {
			log.Fatal().Err(err).Msg("create IP rate limiter")
		}
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   authHandler,
		HealthHandler: healthHandler,
		AuthGate:      authGate.Handler,
		Secure:        secureMiddleware,
		IPRateLimit:   ipLimit,
		Metrics:       cfg.Server.Metrics,
		Log:           log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
