package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	identityapp "github.com/tradedocs/backend/internal/application/identity"
	appmd "github.com/tradedocs/backend/internal/application/masterdata"
	appprinting "github.com/tradedocs/backend/internal/application/printing"
	tradeapp "github.com/tradedocs/backend/internal/application/trade"
	"github.com/tradedocs/backend/internal/infrastructure/auth"
	"github.com/tradedocs/backend/internal/infrastructure/config"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/migration"
	"github.com/tradedocs/backend/internal/infrastructure/persistence"
	"github.com/tradedocs/backend/internal/infrastructure/printing"
	"github.com/tradedocs/backend/internal/infrastructure/storage"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"github.com/tradedocs/backend/internal/interfaces/http/dto"
	"github.com/tradedocs/backend/internal/interfaces/http/handler"
	"github.com/tradedocs/backend/internal/interfaces/http/middleware"
	"github.com/tradedocs/backend/internal/interfaces/http/router"
	"github.com/tradedocs/backend/migrations"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Trade Documentation API
//	@version		1.0
//	@description	Maker/checker service for proforma invoices, packing lists and commercial invoices.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting trade documents service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}
	tp, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	logExport, err := telemetry.NewLogExporter(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logExport.Attach(log)

	if cfg.Database.MigrateOnStart {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		dbTracing.DBName = cfg.Database.DBName
		if cfg.Database.SlowQueryMillis > 0 {
			dbTracing.SlowQueryThresh = time.Duration(cfg.Database.SlowQueryMillis) * time.Millisecond
		}
		if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	proformaRepo := persistence.NewGormProformaInvoiceRepository(db.DB)
	packingListRepo := persistence.NewGormPackingListRepository(db.DB)
	commercialRepo := persistence.NewGormCommercialInvoiceRepository(db.DB)
	auditRepo := persistence.NewGormAuditTrailRepository(db.DB)
	archiveRepo := persistence.NewGormArchiveRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	masterRepos := persistence.NewMasterRepositories(db.DB)
	refChecker := persistence.NewGormReferenceChecker(db.DB)

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}

	// Token revocation lives in Redis when configured, in memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Addr() != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisBlacklist.Close() }()
		blacklist = redisBlacklist
		checks["redis"] = redisBlacklist.Ping
		log.Info("Token blacklist backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, token revocations are kept in memory")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockoutDuration,
		RefreshTTL:       cfg.JWT.RefreshTokenExpiration,
	}, log)
	userService := identityapp.NewUserService(userRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)

	if cfg.Bootstrap.AdminUsername != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal("Failed to bootstrap administrator", zap.Error(err))
		}
		if created {
			log.Info("Bootstrap administrator created", zap.String("username", cfg.Bootstrap.AdminUsername))
		}
	}

	masterServices := appmd.NewServices(masterRepos, refChecker, packingListRepo, log)
	proformaService := tradeapp.NewProformaInvoiceService(proformaRepo, auditRepo, refChecker, log)
	packingListService := tradeapp.NewPackingListService(packingListRepo, proformaRepo, refChecker, log)
	commercialService := tradeapp.NewCommercialInvoiceService(commercialRepo, packingListRepo, auditRepo, masterRepos.UOMs, refChecker, log)

	// PDF rendering
	pdfRenderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.RemoteURL,
		ExecPath:       cfg.Printing.ExecPath,
		MaxConcurrent:  cfg.Printing.MaxWorkers,
		NoSandbox:      cfg.Printing.NoSandbox,
		Logger:         log,
	})
	defer func() { _ = pdfRenderer.Close() }()

	templates, err := printing.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	archive, err := newArchiveStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize rendering archive", zap.Error(err))
	}
	printService := appprinting.NewPrintService(appprinting.Repositories{
		Proformas:    proformaRepo,
		PackingLists: packingListRepo,
		Commercials:  commercialRepo,
		Audit:        auditRepo,
		Archives:     archiveRepo,
	}, masterRepos, printing.NewDocumentRenderer(templates, pdfRenderer, log), archive, log)

	// HTTP engine
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(log),
		middleware.CORS(corsConfig(cfg.HTTP)),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Fail(dto.ErrCodeRouteNotFound,
			"Route not found.", middleware.GetRequestID(c)))
	})

	authenticate := middleware.Auth(middleware.AuthConfig{
		Authenticator: authService,
		Logger:        log,
	})
	spanEnricher := middleware.SpanEnricher()
	protected := func(c *gin.Context) {
		authenticate(c)
		if c.IsAborted() {
			return
		}
		spanEnricher(c)
	}

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	commercialHandler := handler.NewCommercialInvoiceHandler(commercialService, printService, log)

	r := router.NewRouter(engine)
	r.Register(
		handler.AuthRoutes(handler.NewAuthHandler(authService, log), protected, middleware.RateLimit(loginLimiter)),
		handler.UserRoutes(handler.NewUserHandler(userService, log), protected),
		handler.MasterDataRoutes(handler.NewMasterDataHandler(masterServices, log), protected),
		handler.ProformaInvoiceRoutes(handler.NewProformaInvoiceHandler(proformaService, printService, log), protected),
		handler.PackingListRoutes(handler.NewPackingListHandler(packingListService, printService, log), protected),
		handler.PackingListInvoicingRoutes(commercialHandler, protected),
		handler.CommercialInvoiceRoutes(commercialHandler, protected),
		handler.SystemRoutes(handler.NewSystemHandler(cfg.App.Name, version, checks)),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	_ = log.Sync()
	if err := logExport.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}
	log.Info("Server exited")
}

// loginRateLimit is the number of login or refresh calls one client may make per minute
const loginRateLimit = 10

// runMigrations applies the embedded schema on a dedicated connection.
// golang-migrate closes the pool it is given, so gorm's pool is not shared.
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// newArchiveStore returns nil when archiving is disabled
func newArchiveStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (appprinting.ArchiveStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageFilesystem:
		return printing.NewFileSystemArchive(cfg.Storage.BasePath, log)
	case config.StorageS3:
		archive, err := storage.NewS3Archive(ctx, &cfg.Storage.S3, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	default:
		log.Info("Rendering archive disabled")
		return nil, nil
	}
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cc := middleware.DefaultCORSConfig()
	cc.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cc.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cc.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cc
}
