package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/credifraud/fraud-api-go/internal/adapter/database"
	"github.com/credifraud/fraud-api-go/internal/adapter/http"
	"github.com/credifraud/fraud-api-go/internal/adapter/kafka"
	"github.com/credifraud/fraud-api-go/internal/app/auth"
	"github.com/credifraud/fraud-api-go/internal/app/scoring"
	"github.com/credifraud/fraud-api-go/internal/app/transaction"
	"github.com/credifraud/fraud-api-go/internal/consumer"
	"github.com/credifraud/fraud-api-go/internal/infra/metrics"
	"github.com/credifraud/fraud-api-go/internal/infra/middleware"
	"github.com/credifraud/fraud-api-go/pkg/cache"
	"github.com/credifraud/fraud-api-go/pkg/config"
	"github.com/credifraud/fraud-api-go/pkg/resilience"
	"github.com/credifraud/fraud-api-go/pkg/security"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// App agrega todas as dependências da aplicação
type App struct {
	Logger             *zap.Logger
	Config             *config.Config
	DB                 *database.Database
	Cache              cache.Cache
	Metrics            *metrics.PipelineMetrics
	Middleware         *middleware.Middleware
	TransactionHandler *http.TransactionHandler
	HealthChecker      *http.HealthChecker
	AuthHandler        *http.AuthHandler
	Consumer           *consumer.Consumer

	kafkaReader *kafkago.Reader
	kafkaWriter *kafkago.Writer
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Inicializar banco de dados
	dbConfig := database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        parseDBLogLevel(cfg.Database.LogLevel),
		SlowThreshold:   cfg.Database.SlowThreshold,
		MigrationDir:    cfg.Database.MigrationDir,
		SkipMigrations:  cfg.Database.SkipMigrations,
	}

	db, err := database.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar banco de dados: %w", err)
	}

	// Inicializar métricas
	pipelineMetrics := metrics.NewPipelineMetrics()

	// Inicializar cache conforme configuração
	appCache, err := newCache(cfg, pipelineMetrics, logger)
	if err != nil {
		return nil, err
	}

	// Inicializar repositórios
	transactionRepo := database.NewTransactionRepository(db.DB(), logger)
	userRepo := database.NewUserRepository(db.DB())

	// Inicializar autenticação
	keyManager, err := security.NewKeyManager(cfg.Auth.JWTSecret, logger)
	if err != nil {
		return nil, err
	}
	authService := auth.NewAuthService(keyManager, userRepo, cfg.Auth.TokenExpiration, logger)

	// Carregar o ensemble de modelos
	ensemble, err := scoring.LoadEnsemble(cfg.Models.Dir, pipelineMetrics, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar modelos: %w", err)
	}

	app := &App{
		Logger:  logger,
		Config:  cfg,
		DB:      db,
		Cache:   appCache,
		Metrics: pipelineMetrics,
	}

	// Inicializar clientes Kafka e o pipeline de publicação
	var publisher transaction.Publisher
	if cfg.Kafka.Enabled {
		app.kafkaReader = kafka.NewReader(cfg.Kafka, logger)
		app.kafkaWriter = kafka.NewWriter(cfg.Kafka, logger)
		publisher = kafka.NewPublisher(app.kafkaWriter, cfg.Kafka.TopicOutput, pipelineMetrics, logger)
	} else {
		logger.Warn("Kafka desabilitado: predições não serão publicadas")
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:            "kafka-publisher",
		MaxRequestsFail: 5,
		Timeout:         30 * time.Second,
		MaxRequests:     3,
	}, logger, pipelineMetrics)

	transactionService := transaction.NewService(
		transactionRepo,
		appCache,
		ensemble,
		publisher,
		breaker,
		pipelineMetrics,
		logger,
	)

	if cfg.Kafka.Enabled {
		app.Consumer = consumer.NewConsumer(
			app.kafkaReader,
			transactionService,
			cfg.Kafka.TopicInput,
			pipelineMetrics,
			logger,
		)
	}

	// Inicializar middlewares e handlers HTTP
	serviceName := cfg.Tracing.ServiceName
	if serviceName == "" {
		serviceName = "fraud-api"
	}
	app.Middleware = middleware.NewMiddleware(logger, authService, pipelineMetrics, serviceName)

	var consumerController http.ConsumerController
	var consumerChecker http.ConsumerChecker
	if app.Consumer != nil {
		consumerController = app.Consumer
		consumerChecker = app.Consumer
	}

	app.TransactionHandler = http.NewTransactionHandler(transactionService, consumerController, ctx, logger)
	app.HealthChecker = http.NewHealthChecker(db, appCache, consumerChecker, logger)
	app.AuthHandler = http.NewAuthHandler(authService, logger)

	return app, nil
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.SecurityHeaders())
	router.Use(a.Middleware.CORS())
	if a.Config.Tracing.Enabled {
		router.Use(a.Middleware.Tracing())
	}
	if a.Config.Metrics.Enabled {
		router.Use(a.Middleware.Metrics())
		a.Middleware.RegisterMetricsEndpoint(router)
	}

	// Rotas públicas
	router.GET("/health", a.HealthChecker.LivenessCheck)
	router.GET("/health/liveness", a.HealthChecker.LivenessCheck)
	router.GET("/health/readiness", a.HealthChecker.ReadinessCheck)

	router.GET("/transaction/:id", a.TransactionHandler.GetTransaction)
	router.GET("/start-consuming", a.TransactionHandler.StartConsuming)
	router.POST("/transactions", a.TransactionHandler.ProcessTransaction)
	router.GET("/transactions/recent", a.TransactionHandler.RecentTransactions)

	// Rotas de autenticação
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", a.AuthHandler.Login)
	}

	// Rotas administrativas
	admin := router.Group("/admin")
	admin.Use(a.Middleware.AuthenticateAdmin)
	{
		admin.GET("/health", a.HealthChecker.DetailedHealth)
		admin.GET("/stats", a.TransactionHandler.Stats)
		admin.GET("/clear-cache", a.TransactionHandler.ClearCache)
	}
}

// StartConsumer inicia o consumo em segundo plano quando configurado para
// iniciar junto com a aplicação
func (a *App) StartConsumer(ctx context.Context) {
	if a.Consumer != nil {
		a.Consumer.Start(ctx)
	}
}

// Shutdown libera os recursos da aplicação
func (a *App) Shutdown(ctx context.Context) error {
	if a.Consumer != nil {
		a.Consumer.Stop()
	}

	if a.kafkaWriter != nil {
		if err := a.kafkaWriter.Close(); err != nil {
			a.Logger.Error("Erro ao fechar o produtor Kafka", zap.Error(err))
		}
	}
	if a.kafkaReader != nil {
		if err := a.kafkaReader.Close(); err != nil {
			a.Logger.Error("Erro ao fechar o consumidor Kafka", zap.Error(err))
		}
	}

	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("erro ao fechar o banco de dados: %w", err)
	}

	return nil
}

func newCache(cfg *config.Config, pipelineMetrics *metrics.PipelineMetrics, logger *zap.Logger) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		logger.Info("Cache desabilitado")
		return &cache.NoOpCache{}, nil
	}

	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(&redis.Options{
			Addr:         cfg.Cache.Redis.Address,
			Password:     cfg.Cache.Redis.Password,
			DB:           cfg.Cache.Redis.DB,
			PoolSize:     cfg.Cache.Redis.PoolSize,
			MinIdleConns: cfg.Cache.Redis.MinIdleConns,
			ReadTimeout:  cfg.Cache.Redis.ReadTimeout,
			WriteTimeout: cfg.Cache.Redis.WriteTimeout,
			DialTimeout:  cfg.Cache.Redis.DialTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("erro ao conectar ao Redis: %w", err)
		}
		logger.Info("Cache Redis inicializado", zap.String("address", cfg.Cache.Redis.Address))
		return redisCache, nil
	default:
		logger.Info("Cache em memória inicializado")
		return cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL, pipelineMetrics, logger), nil
	}
}

func parseDBLogLevel(level string) database.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return database.LogLevelSilent
	case "error":
		return database.LogLevelError
	case "info":
		return database.LogLevelInfo
	default:
		return database.LogLevelWarn
	}
}
