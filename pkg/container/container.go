package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"studio-backend/internal/config"
	"studio-backend/internal/infrastructure/cache"
	infraDB "studio-backend/internal/infrastructure/database"
	"studio-backend/internal/infrastructure/storage"
	"studio-backend/internal/session"
	"studio-backend/pkg/database"
	"studio-backend/pkg/token"

	"studio-backend/internal/domains/activity"
	activityRepo "studio-backend/internal/domains/activity/repository"
	"studio-backend/internal/domains/album"
	albumHandler "studio-backend/internal/domains/album/handler"
	albumRepo "studio-backend/internal/domains/album/repository"
	albumService "studio-backend/internal/domains/album/service"
	"studio-backend/internal/domains/user"
	userHandler "studio-backend/internal/domains/user/handler"
	userRepo "studio-backend/internal/domains/user/repository"
	userService "studio-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Initialization order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB             *infraDB.PostgresDB
	Redis          *redis.Client
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	AsynqClient    *asynq.Client

	// Session plumbing
	TokenManager   *token.Manager
	SessionPolicy  *session.Policy
	SessionStore   session.Store
	SessionCookies *session.CookieManager
	SessionManager *session.Manager

	// Audit
	Recorder *activity.AsynqRecorder

	// Repositories
	UserRepo     user.Repository
	AlbumRepo    album.Repository
	ActivityRepo activity.Repository

	// Services
	UserService  user.Service
	AlbumService album.Service

	// Handlers
	UserHandler  *userHandler.UserHandler
	WebHandler   *userHandler.WebHandler
	AlbumHandler *albumHandler.AlbumHandler
}

// NewContainer builds and wires the whole dependency graph.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI Container...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (Environment: %s)", cfg.App.Environment)

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initSessionPlumbing()
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("DI Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	log.Println("Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := infraDB.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	c.DB = db

	// Requests on an exhausted pool fail fast instead of queueing.
	database.AcquireTimeout = dbConfig.AcquireTimeout
	log.Println("Database connected, migrations applied")

	log.Println("Connecting to Redis...")
	redisClient, err := cache.NewClient(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient
	log.Println("Redis connected")

	log.Println("Connecting to MinIO...")
	minioStorage, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to connect to minio: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("MinIO connected")

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	return nil
}

func (c *Container) initSessionPlumbing() {
	c.TokenManager = token.NewManager(c.Config.App.SecretKey)
	c.SessionPolicy = session.NewPolicy(c.Config.Session)
	c.SessionStore = session.NewRedisStore(c.Redis, c.SessionPolicy)

	// The cookie outlives every possible idle window; the store record
	// is the real authority on expiry.
	cookieLifetime := c.SessionPolicy.AbsoluteLifetime()
	secure := c.Config.App.Environment == "production"
	c.SessionCookies = session.NewCookieManager(c.TokenManager, cookieLifetime, secure)

	c.SessionManager = session.NewManager(c.SessionStore, c.SessionPolicy, c.SessionCookies)

	c.Recorder = activity.NewAsynqRecorder(c.AsynqClient)
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.AlbumRepo = albumRepo.NewPostgresRepository(pool)
	c.ActivityRepo = activityRepo.NewActivityRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.Storage, c.ImageProcessor)
	c.AlbumService = albumService.NewAlbumService(c.AlbumRepo, c.Storage, c.ImageProcessor)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.SessionManager, c.Recorder)
	c.WebHandler = userHandler.NewWebHandler(c.UserService, c.SessionManager, c.Recorder, c.Config.App)
	c.AlbumHandler = albumHandler.NewAlbumHandler(c.AlbumService, c.Recorder)
}

// Cleanup releases pooled resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("Failed to close asynq client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("Container cleanup completed")
}
