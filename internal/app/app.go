package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"masterhub_backend/internal/cache"
	"masterhub_backend/internal/config"
	"masterhub_backend/internal/database"
	"masterhub_backend/internal/email"
	"masterhub_backend/internal/handlers"
	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/identity"
	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/ratelimit"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/routes"
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/storage"
	"masterhub_backend/internal/translation"
	"masterhub_backend/internal/validator"
	"masterhub_backend/internal/workers"
	"masterhub_backend/pkg/apperrors"
	"masterhub_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps - внешние зависимости сервера. Run собирает их из конфига,
// тесты подставляют in-memory реализации.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Verifier identity.Verifier
	// Translator может быть nil: контент тогда хранится без переводов
	Translator translation.Provider
	Mailer     notifications.Mailer
	Storage    storage.Storage
}

// Server - собранное приложение
type Server struct {
	Router     *gin.Engine
	Hub        *ws.WebSocketManager
	Dispatcher *notifications.Dispatcher
	Services   *services.ServiceContainer
}

func Run() {
	if err := config.LoadConfig(); err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	cfg := config.AppConfig

	logger.InitWithWriter(cfg.Server.Env, cfg.Server.LogLevel, os.Stdout)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closers, err := initializeDeps(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close resource", "error", err)
			}
		}
	}()

	server := SetupRouter(cfg, deps)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go server.Hub.Run(hubCtx)

	workers.NewNotificationCleanupWorker(deps.DB, repositories.NewNotificationRepository(),
		cfg.Notifications.Retention, cfg.Notifications.CleanupInterval).Start(hubCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Router}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server", "grace", cfg.Server.ShutdownGrace.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	stopHub()

	if !server.Dispatcher.Wait(cfg.Server.ShutdownGrace) {
		logger.Warn("Pending notification emails were not sent before shutdown")
	}
	logger.Info("Server stopped")
}

// initializeDeps подключает БД, redis и внешние сервисы по конфигу
func initializeDeps(ctx context.Context, cfg *config.Config) (Deps, []io.Closer, error) {
	var deps Deps
	var closers []io.Closer

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg.Database)
	if err != nil {
		return deps, closers, err
	}
	if err := database.Ping(ctx, db); err != nil {
		return deps, closers, fmt.Errorf("database unavailable: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return deps, closers, err
		}
	}
	logger.Info("Database connected")
	deps.DB = db

	deps.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closers = append(closers, deps.Redis)
	if err := deps.Redis.Ping(ctx).Err(); err != nil {
		// лимитеры работают по своим fail-open/fail-closed правилам
		logger.Warn("Redis unavailable at startup", "addr", cfg.Redis.Addr, "error", err)
	}

	switch cfg.Auth.Provider {
	case "firebase":
		verifier, err := identity.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			return deps, closers, err
		}
		deps.Verifier = verifier
	default:
		deps.Verifier = identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	}
	logger.Info("Identity provider configured", "provider", cfg.Auth.Provider)

	if cfg.Translation.APIKey != "" {
		provider, err := translation.NewGoogleProvider(ctx, cfg.Translation.APIKey)
		if err != nil {
			return deps, closers, err
		}
		deps.Translator = provider
		closers = append(closers, provider)
	} else {
		logger.Warn("Translation API key is not set, content will be stored untranslated")
	}

	if cfg.Email.Enabled {
		renderer, err := email.NewTemplateManager()
		if err != nil {
			return deps, closers, err
		}
		if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			return deps, closers, fmt.Errorf("failed to load email templates: %w", err)
		}
		deps.Mailer = email.NewNotificationMailer(email.NewSMTPProvider(email.FromConfig(cfg.Email)), renderer)
	} else {
		logger.Warn("Email is disabled, notifications are delivered only in-app")
		deps.Mailer = email.LogMailer{}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return deps, closers, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		closers = append(closers, c)
	}
	deps.Storage = store
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	return deps, closers, nil
}

// SetupRouter собирает сервисы, хэндлеры и маршруты. Хаб websocket
// возвращается незапущенным: его жизненным циклом управляет вызывающий.
func SetupRouter(cfg *config.Config, deps Deps) *Server {
	locales := i18n.SetSupported(cfg.Translation.Locales)
	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := ws.NewWebSocketManager()
	dispatcher := notifications.NewDispatcher(hub, deps.Mailer)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, deps, dispatcher, locales)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer, deps)

	// 3. Middleware для маршрутов
	guards := initializeGuards(cfg, deps)

	// 4. Инициализируем WebSocket
	wsHandler := ws.NewWebSocketHandler(hub, cfg.Server.AllowedOrigins)

	// 5. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, deps)

	routes.RegisterRoutes(ginRouter, appHandlers, guards, wsHandler)

	return &Server{
		Router:     ginRouter,
		Hub:        hub,
		Dispatcher: dispatcher,
		Services:   serviceContainer,
	}
}

func initializeServices(cfg *config.Config, deps Deps, dispatcher *notifications.Dispatcher, locales []string) *services.ServiceContainer {
	translator := translation.NewService(deps.Translator,
		translation.WithLocales(locales),
		translation.WithTimeout(cfg.Translation.Timeout),
	)
	categoriesCache := cache.NewValue[[]models.Category](cfg.Cache.CategoriesTTL)

	// --- Инициализация репозиториев ---
	profileRepo := repositories.NewProfileRepository()
	categoryRepo := repositories.NewCategoryRepository()
	jobRepo := repositories.NewJobRepository()
	proposalRepo := repositories.NewProposalRepository()
	conversationRepo := repositories.NewConversationRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	// --- Инициализация сервисов ---
	uploads := services.UploadPolicy{MaxSize: cfg.Upload.MaxSize, AllowedTypes: cfg.Upload.AllowedTypes}

	return &services.ServiceContainer{
		ProfileService:      services.NewProfileService(profileRepo, categoryRepo, translator, deps.Storage, uploads, cfg.Admin.Emails),
		CategoryService:     services.NewCategoryService(categoryRepo, categoriesCache),
		JobService:          services.NewJobService(jobRepo, categoryRepo, proposalRepo, profileRepo, notificationRepo, translator, dispatcher, cfg.Jobs.DefaultTTL),
		ProposalService:     services.NewProposalService(proposalRepo, jobRepo, profileRepo, conversationRepo, notificationRepo, translator, dispatcher),
		ReviewService:       services.NewReviewService(reviewRepo, jobRepo, proposalRepo, profileRepo, notificationRepo, translator, dispatcher),
		ChatService:         services.NewChatService(conversationRepo, profileRepo, notificationRepo, translator, dispatcher),
		NotificationService: services.NewNotificationService(notificationRepo),
		AdminService:        services.NewAdminService(profileRepo, jobRepo, proposalRepo, reviewRepo, conversationRepo),
		Translator:          translator,
		Dispatcher:          dispatcher,
	}
}

func initializeHandlers(svc *services.ServiceContainer, deps Deps) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, svc.ProfileService, svc.ReviewService),
		CategoryHandler:     handlers.NewCategoryHandler(baseHandler, svc.CategoryService),
		JobHandler:          handlers.NewJobHandler(baseHandler, svc.JobService),
		ProposalHandler:     handlers.NewProposalHandler(baseHandler, svc.ProposalService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, svc.ChatService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, svc.ReviewService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, svc.AdminService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler, redisOrNil(deps.Redis)),
	}
}

func redisOrNil(client *redis.Client) redis.Cmdable {
	if client == nil {
		return nil
	}
	return client
}

func initializeGuards(cfg *config.Config, deps Deps) handlers.Guards {
	resolver := identity.NewProfileResolver(repositories.NewProfileRepository(), repositories.ErrProfileNotFound)

	guards := handlers.Guards{
		Authenticate:    middleware.Authenticate(deps.Verifier),
		RequireProfile:  middleware.RequireProfile(resolver),
		OptionalProfile: middleware.OptionalProfile(deps.Verifier, resolver),
	}

	if deps.Redis == nil {
		noop := func(c *gin.Context) { c.Next() }
		guards.ProfileBootstrapLimit = noop
		guards.JobCreateLimit = noop
		guards.MessageSendLimit = noop
		logger.Warn("Rate limiting is disabled: no redis client")
		return guards
	}

	limiter := ratelimit.NewLimiter(deps.Redis, "rl")
	rl := cfg.RateLimit
	guards.JobCreateLimit = middleware.RateLimit(limiter, ratelimit.Policy{
		Name: "job_create", Limit: rl.JobCreate.Limit, Window: rl.JobCreate.Window, FailOpen: true,
	}, middleware.ProfileOrIP)
	guards.MessageSendLimit = middleware.RateLimit(limiter, ratelimit.Policy{
		Name: "message_send", Limit: rl.MessageSend.Limit, Window: rl.MessageSend.Window, FailOpen: true,
	}, middleware.ProfileOrIP)
	// создание профиля защищает от массовой регистрации: без кэша не пропускаем
	guards.ProfileBootstrapLimit = middleware.RateLimit(limiter, ratelimit.Policy{
		Name: "profile_bootstrap", Limit: rl.ProfileBootstrap.Limit, Window: rl.ProfileBootstrap.Window, FailOpen: false,
	}, middleware.ProfileOrIP)

	return guards
}

func initializeGinRouter(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(deps.DB))
	router.Use(middleware.LocaleMiddleware())

	// локальное хранилище раздает аватары само
	if local, ok := deps.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		router.Static(cfg.Storage.BaseURL, local.BasePath())
	}
	return router
}
