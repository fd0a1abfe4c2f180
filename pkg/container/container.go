package container

import (
	"context"
	"fmt"
	"time"

	"partshub-backend/internal/config"
	"partshub-backend/internal/domains/appconfig"
	infraCache "partshub-backend/internal/infrastructure/cache"
	"partshub-backend/internal/infrastructure/database"
	"partshub-backend/internal/infrastructure/storage"
	"partshub-backend/internal/shared/middleware"
	"partshub-backend/internal/shared/ratelimit"
	"partshub-backend/pkg/cache"
	"partshub-backend/pkg/jwt"

	appconfigRepo "partshub-backend/internal/domains/appconfig/repository"
	crossrefHandler "partshub-backend/internal/domains/crossref/handler"
	crossrefRepo "partshub-backend/internal/domains/crossref/repository"
	crossrefService "partshub-backend/internal/domains/crossref/service"
	customerHandler "partshub-backend/internal/domains/customer/handler"
	customerRepo "partshub-backend/internal/domains/customer/repository"
	customerService "partshub-backend/internal/domains/customer/service"
	importlogRepo "partshub-backend/internal/domains/importlog/repository"
	productHandler "partshub-backend/internal/domains/product/handler"
	productRepo "partshub-backend/internal/domains/product/repository"
	productService "partshub-backend/internal/domains/product/service"
	quoteHandler "partshub-backend/internal/domains/quote/handler"
	quoteRepo "partshub-backend/internal/domains/quote/repository"
	quoteService "partshub-backend/internal/domains/quote/service"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup; construction order is config,
// infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *database.PostgresDB
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	RateLimiter *ratelimit.Limiter

	// Auth
	AppConfigStore appconfig.Store
	AuthResolver   *middleware.AuthResolver

	// Repositories
	ProductRepo   productRepo.RepositoryInterface
	CrossRefRepo  crossrefRepo.RepositoryInterface
	CustomerRepo  customerRepo.RepositoryInterface
	QuoteRepo     quoteRepo.RepositoryInterface
	ImportLogRepo importlogRepo.RepositoryInterface

	// Services
	ProductService        productService.ServiceInterface
	ProductImportService  productService.ImportServiceInterface
	CrossRefService       crossrefService.ServiceInterface
	CrossRefImportService crossrefService.ImportServiceInterface
	CustomerService       customerService.ServiceInterface
	QuoteService          quoteService.ServiceInterface

	// Handlers
	ProductHandler  *productHandler.ProductHandler
	ImportHandler   *productHandler.ImportHandler
	CrossRefHandler *crossrefHandler.CrossRefHandler
	CustomerHandler *customerHandler.CustomerHandler
	QuoteHandler    *quoteHandler.QuoteHandler
}

// Options tweaks container construction per binary.
type Options struct {
	// SkipAsynqClient leaves AsynqClient nil; the worker enqueues nothing.
	SkipAsynqClient bool

	// SkipStorage leaves Storage nil; file archival becomes a no-op.
	SkipStorage bool
}

func NewContainer() (*Container, error) {
	return NewContainerWithOptions(Options{})
}

func NewContainerWithOptions(opts Options) (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	if err := c.initInfrastructure(opts); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure(opts Options) error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("Database connected")

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Cache misses fall through to the database; not fatal.
		log.Warn().Err(err).Msg("Redis connection failed, continuing without cache")
	}
	c.Cache = redisCache

	if !opts.SkipStorage {
		minioStorage, err := storage.NewMinIOStorage(c.Config.MinIO)
		if err != nil {
			// Archival is best effort; the import paths work without it.
			log.Warn().Err(err).Msg("MinIO unavailable, import file archival disabled")
		} else {
			c.Storage = minioStorage
		}
	}

	if !opts.SkipAsynqClient {
		c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
	}

	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret)
	c.RateLimiter = ratelimit.NewLimiter(ratelimit.Config{
		MaxRequests: c.Config.RateLimit.MaxRequests,
		Window:      time.Duration(c.Config.RateLimit.WindowSeconds) * time.Second,
	})

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AppConfigStore = appconfigRepo.NewPostgresStore(pool, c.Cache)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.CrossRefRepo = crossrefRepo.NewPostgresRepository(pool)
	c.CustomerRepo = customerRepo.NewPostgresRepository(pool)
	c.QuoteRepo = quoteRepo.NewPostgresRepository(pool)
	c.ImportLogRepo = importlogRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	maxBatch := c.Config.Import.MaxBatchSize

	c.AuthResolver = middleware.NewAuthResolver(c.AppConfigStore, c.JWTManager)

	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.ProductImportService = productService.NewImportService(c.ProductRepo, c.ImportLogRepo, maxBatch)
	c.CrossRefService = crossrefService.NewService(c.CrossRefRepo)
	c.CrossRefImportService = crossrefService.NewImportService(c.CrossRefRepo, c.ImportLogRepo, maxBatch)
	c.CustomerService = customerService.NewService(c.CustomerRepo)
	c.QuoteService = quoteService.NewService(c.QuoteRepo, c.CustomerRepo, c.ProductRepo)
}

func (c *Container) initHandlers() {
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.ImportHandler = productHandler.NewImportHandler(c.ProductImportService, c.ImportLogRepo, c.Storage, c.AsynqClient)
	c.CrossRefHandler = crossrefHandler.NewCrossRefHandler(c.CrossRefService, c.CrossRefImportService, c.ImportLogRepo, c.AsynqClient)
	c.CustomerHandler = customerHandler.NewCustomerHandler(c.CustomerService)
	c.QuoteHandler = quoteHandler.NewQuoteHandler(c.QuoteService)
}

// Cleanup releases container resources on shutdown.
func (c *Container) Cleanup() {
	if c.RateLimiter != nil {
		c.RateLimiter.Stop()
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Redis")
			}
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database pool")
		}
	}

	log.Info().Msg("Container resources released")
}
