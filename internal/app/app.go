package app

import (
	"context"
	"log/slog"

	httpapp "resource_hub/internal/app/http"
	"resource_hub/internal/cache"
	"resource_hub/internal/config"
	"resource_hub/internal/lib/indexer"
	"resource_hub/internal/repository"
	filestorage "resource_hub/internal/storage/filestorage"
	redisstorage "resource_hub/internal/storage/redis"
	httprouters "resource_hub/internal/transport/http"

	categoryservice "resource_hub/internal/services/category_service"
	imageservice "resource_hub/internal/services/image_service"
	resourceservice "resource_hub/internal/services/resource_service"
)

type App struct {
	HTTPServer *httpapp.Server
	Repo       *repository.Repository
	Redis      *redisstorage.Client
}

func New(log *slog.Logger, cfg *config.Config) *App {
	repo, err := repository.NewRepository(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	var (
		contentCache cache.Cache
		redisClient  *redisstorage.Client
	)

	switch cfg.Cache.Backend {
	case "redis":
		redisClient = redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := redisClient.HealthCheck(context.Background()); err != nil {
			panic(err)
		}
		contentCache = cache.NewRedisCache(redisClient.Client, cfg.Cache.TTL)
	default:
		contentCache = cache.NewMemoryCache(cfg.Cache.TTL)
	}

	fileStorage, err := filestorage.NewLocalFileStorage(
		cfg.FileStorage.BaseDir,
		cfg.FileStorage.BaseURL,
		cfg.FileStorage.MaxSize,
	)
	if err != nil {
		panic(err)
	}

	images := imageservice.NewImageService(log, repo.Image, fileStorage)
	notifier := indexer.New(log, cfg.Indexer.Endpoint, cfg.SiteURL)

	resources := resourceservice.NewResourceService(
		log,
		repo.Resource,
		repo.Category,
		repo.Tag,
		repo.Author,
		images,
		contentCache,
		notifier,
	)
	categories := categoryservice.NewCategoryService(log, repo.Category, contentCache)

	routers := httprouters.NewRouter(log, cfg.SiteURL, cfg.PageSize, resources, categories)

	server := httpapp.New(log, cfg.APIToken, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		Repo:       repo,
		Redis:      redisClient,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		panic(err)
	}

	a.Repo.Close()

	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
