// Package di wires the application graph by hand: config in, an
// http.Server and background workers out.
package di

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"coursehub-backend/application/catalog"
	"coursehub-backend/application/content"
	"coursehub-backend/application/editing"
	"coursehub-backend/application/media"
	"coursehub-backend/application/progress"
	"coursehub-backend/infrastructure/cache"
	"coursehub-backend/infrastructure/config"
	"coursehub-backend/infrastructure/persistence/supabase"
	"coursehub-backend/interfaces/http/rest"
	"coursehub-backend/interfaces/http/rest/handlers"
	"coursehub-backend/interfaces/http/rest/middleware"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/observability"
)

// Container holds the wired application
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Store     *cache.Store
	Caches    *cache.Caches
	Preloader *content.Preloader
	Watcher   *cache.DirWatcher // nil unless the dir watcher is enabled

	Server *http.Server
}

// NewContainer builds the full dependency graph from configuration
func NewContainer(cfg *config.Config) (*Container, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Cache: memory tier over a quota-bounded file tier. A file-tier
	// failure leaves the store memory-only rather than failing startup.
	storeOpts := []cache.StoreOption{
		cache.WithTTL(cfg.CacheTTL),
		cache.WithMetrics(metrics),
	}
	fileTier, err := cache.NewFileTier(cfg.CacheDir, cfg.CacheQuotaBytes)
	if err != nil {
		logger.Warn("persistent cache tier unavailable, running memory-only",
			zap.String("dir", cfg.CacheDir), zap.Error(err))
	} else {
		storeOpts = append(storeOpts, cache.WithPersistentTier(fileTier))
	}
	store := cache.NewStore(cfg.CacheSchemaTag, logger, storeOpts...)
	caches := cache.NewCaches(store)
	invalidator := cache.NewInvalidator(caches, logger)

	// Supabase-backed persistence
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, logger)
	if err != nil {
		return nil, err
	}
	courseRepo := supabase.NewCourseRepository(client)
	moduleRepo := supabase.NewModuleRepository(client)
	lessonRepo := supabase.NewLessonRepository(client)
	versionRepo := supabase.NewVersionRepository(client)
	mediaRepo := supabase.NewMediaRepository(client)
	progressRepo := supabase.NewProgressRepository(client)
	mediaStorage := supabase.NewMediaStorage(client, cfg.MediaBucket, logger)
	authGateway := supabase.NewAuthGateway(client, logger)

	// Application services
	contentSvc := editing.NewContentService(courseRepo, moduleRepo, lessonRepo, versionRepo, mediaRepo, invalidator, logger, metrics)
	sessionCfg := editing.SessionConfig{
		AutoSaveIdle:    cfg.AutoSaveIdle,
		SaveErrorWindow: cfg.SaveErrorWindow,
		SaveTimeout:     cfg.RequestTimeout,
	}
	manager := editing.NewManager(contentSvc, sessionCfg, logger, metrics)
	catalogSvc := catalog.NewService(caches, courseRepo, moduleRepo, lessonRepo, logger)
	mediaSvc := media.NewService(mediaRepo, mediaStorage, invalidator, logger)
	progressSvc := progress.NewService(progressRepo, logger)

	fetcher := content.NewFetcher(cfg.ContentBaseURL, caches.LessonContent, cfg.RequestTimeout, logger, metrics)
	preloader := content.NewPreloader(fetcher, cfg.PreloadPaths, cfg.PreloadSpacing, logger)

	var watcher *cache.DirWatcher
	if cfg.EnableDirWatcher && cfg.ContentDir != "" {
		watcher, err = cache.NewDirWatcher(cfg.ContentDir, "lessons", caches, logger)
		if err != nil {
			logger.Warn("content dir watcher unavailable", zap.String("dir", cfg.ContentDir), zap.Error(err))
			watcher = nil
		}
	}

	// HTTP surface
	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		validator, err = auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			return nil, err
		}
	}
	authn := middleware.NewAuthenticator(validator, authGateway, logger)

	router := rest.NewRouter(cfg, rest.Handlers{
		Content:  handlers.NewContentHandler(fetcher, store),
		Course:   handlers.NewCourseHandler(catalogSvc, contentSvc),
		Module:   handlers.NewModuleHandler(catalogSvc, contentSvc),
		Lesson:   handlers.NewLessonHandler(catalogSvc, contentSvc),
		Session:  handlers.NewSessionHandler(manager),
		Media:    handlers.NewMediaHandler(mediaSvc),
		Progress: handlers.NewProgressHandler(progressSvc),
		Auth:     handlers.NewAuthHandler(authGateway),
	}, authn, metrics, registry, logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Caches:    caches,
		Preloader: preloader,
		Watcher:   watcher,
		Server: &http.Server{
			Addr:    cfg.ServerAddress,
			Handler: router,
		},
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}
	return zapCfg.Build()
}
