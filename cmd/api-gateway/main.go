package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sci-crm-api/api/swagger"
	"github.com/noah-isme/sci-crm-api/internal/handler"
	"github.com/noah-isme/sci-crm-api/internal/identity"
	internalmiddleware "github.com/noah-isme/sci-crm-api/internal/middleware"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	"github.com/noah-isme/sci-crm-api/internal/service"
	"github.com/noah-isme/sci-crm-api/pkg/cache"
	"github.com/noah-isme/sci-crm-api/pkg/config"
	"github.com/noah-isme/sci-crm-api/pkg/database"
	"github.com/noah-isme/sci-crm-api/pkg/docstore"
	"github.com/noah-isme/sci-crm-api/pkg/jobs"
	"github.com/noah-isme/sci-crm-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sci-crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sci-crm-api/pkg/middleware/requestid"
	"github.com/noah-isme/sci-crm-api/pkg/storage"
)

const (
	sessionSweepInterval = time.Minute
	exportCleanupEvery   = time.Hour
	shutdownTimeout      = 15 * time.Second
)

// @title SCI CRM API
// @version 1.0.0
// @description Lead lifecycle, enrollment and reporting API for coaching institute staff
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var redisClient *redis.Client
	if cfg.Redis.Notifier || cfg.Exports.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-process notifier and job registry", zap.Error(err))
		} else {
			redisClient = client
			defer redisClient.Close()
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	var notifier docstore.Notifier = docstore.NewLocalNotifier()
	if cfg.Redis.Notifier && redisClient != nil {
		redisNotifier, err := docstore.NewRedisNotifier(ctx, redisClient, cfg.Redis.Channel, logr)
		if err != nil {
			return fmt.Errorf("redis notifier: %w", err)
		}
		notifier = redisNotifier
	}

	storeOpts := []docstore.Option{
		docstore.WithLogger(logr),
		docstore.WithNotifier(notifier),
		docstore.WithObserver(metrics.ObserveStoreWrite),
	}

	var (
		store    docstore.Store
		accounts identityAccounts
	)
	if cfg.Store.SQL() {
		db, err := database.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer db.Close()
		sqlStore := docstore.NewSQLStore(db, storeOpts...)
		if err := sqlStore.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate record store: %w", err)
		}
		accountRepo := repository.NewAccountRepository(db)
		if err := accountRepo.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate accounts: %w", err)
		}
		store, accounts = sqlStore, accountRepo
		checks["database"] = pingDB(db)
	} else {
		logr.Warn("using in-memory record store; data is lost on restart")
		store, accounts = docstore.NewMemoryStore(storeOpts...), repository.NewMemoryAccountRepository()
	}
	defer store.Close()

	records := repository.NewRecordStore(store, logr)

	provider := identity.NewProvider(accounts,
		identity.NewFederatedVerifier(cfg.Identity.FederatedSecret, cfg.Identity.FederatedIssuer, cfg.Identity.FederatedAudience),
		validate, logr, identity.ProviderConfig{MinPasswordLength: cfg.Identity.MinPasswordLength})

	sessions := service.NewSessionManager(records, metrics, logr, cfg.Store.ReadyTimeout)
	provider.OnIdentityChange(sessions.HandleIdentityChange)
	sessions.StartSweeper(ctx, sessionSweepInterval)
	defer sessions.CloseAll()

	gate := service.NewAuthorizationGate(records, metrics, logr)
	authSvc := service.NewAuthService(gate, provider, sessions, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	lifecycleSvc := service.NewLifecycleService(records, validate, metrics, logr, service.LifecycleConfig{
		EnrollmentPrefix: cfg.Lifecycle.EnrollmentPrefix,
		DefaultMedium:    cfg.Lifecycle.DefaultMedium,
		DefaultBoard:     cfg.Lifecycle.DefaultBoard,
		StampInquiries:   cfg.Lifecycle.StampInquiries,
	})
	bulkSvc := service.NewBulkService(records, validate, logr)
	catalogSvc := service.NewCatalogService(records, validate, logr)
	resultsSvc := service.NewResultsService(records, validate, logr)

	exportSvc, err := buildExports(ctx, cfg, redisClient, metrics, validate, logr)
	if err != nil {
		return err
	}
	if cfg.Exports.Enabled {
		queue := jobs.NewQueue("exports", exportSvc.Process, jobs.QueueConfig{
			Workers:    cfg.Exports.Workers,
			MaxRetries: cfg.Exports.Retries,
			RetryDelay: 2 * time.Second,
			JobTimeout: time.Minute,
			OnFailure:  exportSvc.Fail,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()
		exportSvc.AttachQueue(queue)
		exportSvc.StartCleanup(ctx, exportCleanupEvery)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), internalmiddleware.Session(authSvc), handler.RouteConfig{
		DashboardEnabled: cfg.Dashboard.Enabled,
		ExportsEnabled:   cfg.Exports.Enabled,
	}, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Students:   handler.NewStudentHandler(catalogSvc, bulkSvc),
		Inquiries:  handler.NewInquiryHandler(lifecycleSvc, bulkSvc),
		Potentials: handler.NewPotentialHandler(lifecycleSvc),
		Programs:   handler.NewProgramHandler(catalogSvc),
		Batches:    handler.NewBatchHandler(catalogSvc),
		Results:    handler.NewResultsHandler(resultsSvc),
		Employees:  handler.NewEmployeeHandler(),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService()),
		Exports:    handler.NewExportHandler(exportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type identityAccounts interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
}

// buildExports picks the blob storage and job registry. Without Redis the
// registry lives in memory and job status does not survive a restart.
func buildExports(ctx context.Context, cfg *config.Config, redisClient *redis.Client, metrics *service.MetricsService, validate *validator.Validate, logr *zap.Logger) (*service.ExportService, error) {
	exportCfg := service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.ResultTTL}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	if !cfg.Exports.Enabled {
		return service.NewExportService(repository.NewMemoryExportJobRepository(), nil, signer, metrics, validate, logr, exportCfg), nil
	}

	var blobs storage.Storage
	switch cfg.Exports.StorageDriver {
	case config.StorageDriverS3:
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.Exports.S3Bucket,
			Region:    cfg.Exports.S3Region,
			Endpoint:  cfg.Exports.S3Endpoint,
			PathStyle: cfg.Exports.S3PathStyle,
			Prefix:    "exports",
		})
		if err != nil {
			return nil, fmt.Errorf("export storage: %w", err)
		}
		blobs = s3Store
	default:
		local, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("export storage: %w", err)
		}
		blobs = local
	}

	if redisClient != nil {
		return service.NewExportService(repository.NewExportJobRepository(redisClient, cfg.Exports.ResultTTL), blobs, signer, metrics, validate, logr, exportCfg), nil
	}
	return service.NewExportService(repository.NewMemoryExportJobRepository(), blobs, signer, metrics, validate, logr, exportCfg), nil
}

func pingDB(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
