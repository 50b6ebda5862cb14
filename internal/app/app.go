package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/shestoi/magazyn/internal/api/http"
	"github.com/shestoi/magazyn/internal/config"
	"github.com/shestoi/magazyn/internal/event/kafka"
	"github.com/shestoi/magazyn/internal/service"
	"github.com/shestoi/magazyn/internal/store"
	platformlogging "github.com/shestoi/magazyn/platform/logging"
	"github.com/shestoi/magazyn/platform/observability"
	platformshutdown "github.com/shestoi/magazyn/platform/shutdown"
)

// App содержит все зависимости для запуска и корректного shutdown magazyn
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// NewLogger создаёт logger сервиса по конфигурации
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	return platformlogging.New(platformlogging.Config{
		ServiceName: config.ServiceName,
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
}

// Build создаёт и настраивает все зависимости magazyn
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	cfg.Log(logger)

	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// Регистрируем shutdown функции в порядке создания; выполняются в обратном
	otelShutdown, err := observability.Init(ctx, cfg.Observability())
	if err != nil {
		return nil, err
	}
	shutdownMgr.Add("otel", otelShutdown)

	table, closeTable, err := OpenTable(ctx, cfg, logger)
	if err != nil {
		shutdownMgr.Shutdown()
		return nil, err
	}
	shutdownMgr.Add("store", closeTable)

	storeClient := store.NewClient(table, logger)

	// Недоступное хранилище при старте не фатально: /health покажет 503
	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	if err := storeClient.Ping(pingCtx); err != nil {
		logger.Warn("Store is not reachable at startup", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	} else {
		logger.Info("Store connection established", zap.String("driver", cfg.StoreDriver))
	}
	cancel()

	var publisher service.StockEventPublisher = kafka.NoOpPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := kafka.NewKafkaStockEventPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		shutdownMgr.Add("kafka_writer", platformshutdown.CloseCloser(kafkaPublisher))
		publisher = kafkaPublisher
		logger.Info("Stock events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	inventoryService := service.NewInventoryService(storeClient, publisher, logger)

	handler := httpapi.NewHandler(inventoryService, logger)
	router := httpapi.NewRouter(handler, storeClient.Ping, config.ServiceName, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до сигнала shutdown или отмены ctx
func (a *App) Run(ctx context.Context) error {
	defer platformlogging.Sync(a.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("Starting magazyn", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	var serveErr error
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", zap.Error(err))
			serveErr = err
			cancel()
		}
	}()

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait(ctx)

	a.wg.Wait()
	a.logger.Info("magazyn stopped")
	return serveErr
}
