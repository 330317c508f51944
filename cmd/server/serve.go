package main

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandkit/api/internal/auth"
	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/color"
	"github.com/brandkit/api/internal/config"
	"github.com/brandkit/api/internal/database"
	"github.com/brandkit/api/internal/fonts"
	"github.com/brandkit/api/internal/handler"
	"github.com/brandkit/api/internal/logging"
	"github.com/brandkit/api/internal/metrics"
	"github.com/brandkit/api/internal/middleware"
	"github.com/brandkit/api/internal/service"
	"github.com/brandkit/api/internal/store"
	ws "github.com/brandkit/api/internal/websocket"
	"github.com/brandkit/api/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the generation worker",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Server.LogLevel, cfg.Server.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Font catalog
	catalog, err := loadCatalog(cfg.Fonts.CatalogPath)
	if err != nil {
		return err
	}
	log.Info("font catalog loaded", zap.Int("fonts", catalog.Len()), zap.Strings("vibes", catalog.Vibes()))

	// External clients; unconfigured providers fall back to mock output
	completer, err := newTextCompleter(ctx, cfg)
	if err != nil {
		return err
	}
	if !completer.IsConfigured() {
		log.Info("text model not configured, using mock strategies", zap.String("provider", cfg.Text.Provider))
	}

	renderer := client.NewHuggingFaceClient(&cfg.HuggingFace)
	if !renderer.IsConfigured() {
		log.Info("image model not configured, using placeholder logos")
	}

	var storage client.StorageClient
	if cfg.R2.AccessKeyID != "" && cfg.R2.SecretAccessKey != "" {
		r2Client, err := client.NewR2Client(&cfg.R2)
		if err != nil {
			log.Warn("R2 client not initialized", zap.Error(err))
		} else {
			storage = r2Client
		}
	} else {
		log.Info("R2 storage not configured, using mock storage")
	}

	// Persistence and eligibility
	var (
		identities store.IdentityStore
		gate       service.EligibilityGate
		db         *sql.DB
	)
	if cfg.Database.URL != "" {
		db, err = database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		identities = store.NewPostgresIdentityStore(db)
		gate = store.NewCreditGate(db, cfg.Credits.WeeklyLimit)
	} else {
		log.Warn("DATABASE_URL not set, identities are kept in memory and every user is eligible")
		identities = store.NewMemoryIdentityStore()
		gate = store.AllowAllGate{}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipelineMetrics := metrics.NewPipeline()
	if err := pipelineMetrics.Register(registry); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	generation := service.NewGenerationService(service.GenerationDeps{
		Fonts:      catalog,
		Strategy:   service.NewStrategyService(completer),
		Colors:     color.NewEngine(),
		Images:     service.NewImageService(renderer),
		Assets:     service.NewAssetService(storage),
		Identities: identities,
		Gate:       gate,
		Metrics:    pipelineMetrics,
		Logger:     log.Named("pipeline"),
		Timeouts: service.Timeouts{
			Strategy: cfg.Pipeline.StrategyTimeout,
			Image:    cfg.Pipeline.ImageTimeout,
			Upload:   cfg.Pipeline.UploadTimeout,
			Persist:  cfg.Pipeline.PersistTimeout,
		},
	})

	// Redis, job queue and websocket hub
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not available", zap.Error(err))
	}

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	jobService := service.NewJobService(redisClient, asynqClient, identities)

	// Authentication
	var verifier auth.TokenVerifier
	if cfg.OIDC.Issuer != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(&cfg.OIDC)
		if err != nil {
			log.Warn("JWKS verifier not initialized", zap.Error(err))
		} else {
			defer jwksVerifier.Close()
			verifier = jwksVerifier
		}
	}
	authn := auth.NewAuthenticator(verifier, cfg.JWT.Secret)

	var apiAuth, wsAuth fiber.Handler
	if cfg.Gateway.Enabled {
		// Behind the gateway: ForwardAuth already ran, read X-User-* headers
		log.Info("gateway mode enabled, using header-based auth")
		apiAuth = middleware.GatewayAuthMiddleware()
		wsAuth = apiAuth
	} else {
		authMiddleware := middleware.NewAuthMiddleware(authn)
		apiAuth = authMiddleware.Authenticate()
		wsAuth = authMiddleware.AuthenticateWebSocket()
	}

	validate := validator.New()
	routes := &handler.Routes{
		Generate:  handler.NewGenerateHandler(generation, validate),
		Brands:    handler.NewBrandHandler(identities),
		Fonts:     handler.NewFontsHandler(catalog),
		Jobs:      handler.NewJobsHandler(jobService, validate),
		WebSocket: handler.NewWebSocketHandler(jobService, hub),
		Auth:      handler.NewAuthHandler(authn),
		Health: handler.NewHealthHandler(map[string]bool{
			"text":     completer.IsConfigured(),
			"image":    renderer.IsConfigured(),
			"storage":  storage != nil,
			"database": db != nil,
			"auth":     authn.Configured() || cfg.Gateway.Enabled,
		}),
		Metrics: adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	routes.Register(app, apiAuth, wsAuth, middleware.NewRateLimiter(redisClient, log), cfg.RateLimit)

	// Asynq worker server
	workerSrv := newWorkerServer(cfg, redisOpt, log)
	mux := asynq.NewServeMux()
	mux.Handle(service.TaskTypeGenerate, worker.NewGenerationWorker(generation, jobService, hub, log))
	if err := workerSrv.Start(mux); err != nil {
		log.Warn("job worker not started", zap.Error(err))
	} else {
		defer workerSrv.Shutdown()
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func loadCatalog(path string) (*fonts.Catalog, error) {
	if path == "" {
		return fonts.Default()
	}
	return fonts.Load(path)
}

// newTextCompleter picks the strategy model provider
func newTextCompleter(ctx context.Context, cfg *config.Config) (client.TextCompleter, error) {
	switch strings.ToLower(cfg.Text.Provider) {
	case "gemini":
		gemini, err := client.NewGeminiClient(ctx, &cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return gemini, nil
	case "", "groq":
		return client.NewGroqClient(&cfg.Groq), nil
	}
	return nil, fmt.Errorf("unknown text provider %q", cfg.Text.Provider)
}

func newWorkerServer(cfg *config.Config, redisOpt asynq.RedisClientOpt, log *zap.Logger) *asynq.Server {
	logLevel := asynq.InfoLevel
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug":
		logLevel = asynq.DebugLevel
	case "warn":
		logLevel = asynq.WarnLevel
	case "error":
		logLevel = asynq.ErrorLevel
	}

	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			service.QueueGenerate: 1,
		},
		Logger:   log.Named("asynq").Sugar(),
		LogLevel: logLevel,
	})
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
