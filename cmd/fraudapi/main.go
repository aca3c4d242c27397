package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/credifraud/fraud-api-go/internal/app"
	"github.com/credifraud/fraud-api-go/pkg/config"
	"github.com/credifraud/fraud-api-go/pkg/logging"
	"github.com/credifraud/fraud-api-go/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupServer(router *gin.Engine, cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
}

func main() {
	// Inicializar logger
	logger, err := logging.NewLogger()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Carregar configuração
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		logger.Fatal("Falha ao carregar configuração", zap.Error(err))
	}

	// Inicializar o tracer se estiver habilitado
	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider(
			context.Background(),
			cfg.Tracing.ServiceName,
			cfg.Tracing.Endpoint,
			cfg.Tracing.SamplingRatio,
			logger,
		)
		if err != nil {
			logger.Error("Falha ao inicializar tracer", zap.Error(err))
		} else {
			logger.Info("Tracer inicializado com sucesso",
				zap.String("endpoint", cfg.Tracing.Endpoint))
			defer tp.Shutdown(context.Background())
		}
	}

	// Contexto base do processo: governa o consumidor em segundo plano
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	// Inicializar aplicação
	application, err := app.NewApp(baseCtx, cfg, logger)
	if err != nil {
		logger.Fatal("Falha ao inicializar aplicação", zap.Error(err))
	}

	// Configurar o router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	application.RegisterRoutes(router)

	server := setupServer(router, cfg)

	logger.Info(fmt.Sprintf("Starting application on port %d", cfg.Server.Port))

	// Iniciar o servidor em uma goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Erro ao iniciar servidor", zap.Error(err))
		}
	}()

	// Esperar por sinal de interrupção para shutdown gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Erro ao encerrar servidor", zap.Error(err))
	}

	cancelBase()
	if err := application.Shutdown(ctx); err != nil {
		logger.Error("Erro ao liberar recursos da aplicação", zap.Error(err))
	}

	logger.Info("Servidor encerrado com sucesso")
}
