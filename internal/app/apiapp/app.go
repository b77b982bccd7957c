package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/m2dev/codefolio/internal/config"
	s3infra "github.com/m2dev/codefolio/internal/infra/s3"
	pgrepo "github.com/m2dev/codefolio/internal/repo/postgres"
	redrepo "github.com/m2dev/codefolio/internal/repo/redis"
	authsvc "github.com/m2dev/codefolio/internal/services/auth"
	chatsvc "github.com/m2dev/codefolio/internal/services/chat"
	eventssvc "github.com/m2dev/codefolio/internal/services/events"
	experiencessvc "github.com/m2dev/codefolio/internal/services/experiences"
	mediasvc "github.com/m2dev/codefolio/internal/services/media"
	portfoliosvc "github.com/m2dev/codefolio/internal/services/portfolio"
	profilessvc "github.com/m2dev/codefolio/internal/services/profiles"
	projectssvc "github.com/m2dev/codefolio/internal/services/projects"
	ratesvc "github.com/m2dev/codefolio/internal/services/rate"
	skillssvc "github.com/m2dev/codefolio/internal/services/skills"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	cacheRepo := redrepo.NewCacheRepo(redisClient)
	eventsRepo := redrepo.NewEventsRepo(redisClient)

	profileRepo := pgrepo.NewProfileRepo(pool)
	projectRepo := pgrepo.NewProjectRepo(pool)
	skillRepo := pgrepo.NewSkillRepo(pool)
	experienceRepo := pgrepo.NewExperienceRepo(pool)
	adminUserRepo := pgrepo.NewAdminUserRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL, cfg.Auth.RefreshTTL)
	loginLimiter := ratesvc.NewLoginLimiter(rateRepo, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	authService := authsvc.NewService(jwtManager, sessionRepo, adminUserRepo, loginLimiter, cfg.Auth.RefreshTTL)

	changeFeed := eventssvc.NewFeed(eventsRepo, cacheRepo, log)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.Endpoint, cfg.S3.UseSSL)
	mediaService := mediasvc.NewService(mediaStorage, cfg.Media.MaxUploadBytes, cfg.Media.MaxWidth, cfg.Media.JPEGQuality)

	profileService := profilessvc.NewService(profileRepo, mediaService, changeFeed)
	projectService := projectssvc.NewService(projectRepo, mediaService, changeFeed)
	skillService := skillssvc.NewService(skillRepo, changeFeed)
	experienceService := experiencessvc.NewService(experienceRepo, changeFeed)
	portfolioService := portfoliosvc.NewService(
		profileService,
		projectService,
		skillService,
		experienceService,
		cacheRepo,
		cfg.Cache.PortfolioTTL,
		log,
	)

	var chatGenerator chatsvc.Generator
	if cfg.Chat.APIKey != "" {
		if g, err := chatsvc.NewGeminiGenerator(ctx, cfg.Chat.APIKey, cfg.Chat.Model); err != nil {
			log.Warn("gemini init failed, chat falls back to static reply", zap.Error(err))
		} else {
			chatGenerator = g
		}
	}
	chatService := chatsvc.NewService(chatGenerator, portfolioService, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		ProfileService:    profileService,
		ProjectService:    projectService,
		SkillService:      skillService,
		ExperienceService: experienceService,
		PortfolioService:  portfolioService,
		ChatService:       chatService,
		ChangeFeed:        changeFeed,
		Logger:            log,
		Config:            cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
