package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sanchey92/pizzeria/internal/config"
	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/events"
	"github.com/sanchey92/pizzeria/internal/http/router"
	"github.com/sanchey92/pizzeria/internal/notify"
	"github.com/sanchey92/pizzeria/internal/service/account"
	"github.com/sanchey92/pizzeria/internal/service/cart"
	"github.com/sanchey92/pizzeria/internal/service/catalog"
	"github.com/sanchey92/pizzeria/internal/service/order"
	"github.com/sanchey92/pizzeria/internal/service/settings"
	"github.com/sanchey92/pizzeria/internal/state"
	"github.com/sanchey92/pizzeria/internal/storage"
	"github.com/sanchey92/pizzeria/pkg/kafka"
	"github.com/sanchey92/pizzeria/pkg/outbox"
)

type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend backend
	store   *state.Store
	catalog *catalog.Service
	orders  *state.Replica[[]model.Order]
	status  *state.Replica[model.Settings]
	server  *http.Server

	producer *kafka.Producer
	consumer *kafka.Consumer
	relay    *outbox.Relay
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}

	ctx := context.Background()

	// Logger initialisation
	logger := newLogger(cfg.App.LogLevel, cfg.App.Name)
	slog.SetDefault(logger)
	logger.Info("initialising", slog.String("service", cfg.App.Name), slog.String("storage", cfg.Storage.Driver))

	defaults, err := cfg.Store.Settings()
	if err != nil {
		return nil, fmt.Errorf("app creation: %w", err)
	}

	// Storage initialisation
	b, err := openBackend(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("app creation: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		backend: b,
		store:   state.New(logger.With(slog.String("component", "state")), b, state.NewBroker(), defaults),
	}

	// Kafka initialisation
	eventTopic := ""
	if cfg.Kafka.Enabled {
		if err = a.initKafka(); err != nil {
			a.close()
			return nil, fmt.Errorf("app creation: %w", err)
		}
		eventTopic = cfg.Kafka.EventTopic
	}

	// Services initialisation
	a.catalog = catalog.NewCatalogService(logger, a.store)
	orders := order.NewOrderService(logger, a.store, order.Config{
		ConfirmDelay:      cfg.Order.ConfirmDelay,
		StrictTransitions: cfg.Order.StrictTransitions,
		EventTopic:        eventTopic,
		Notify: notify.Options{
			Domain:      cfg.Notify.MessagingDomain,
			CountryCode: cfg.Notify.CountryCode,
			TrackingURL: cfg.Notify.TrackingURL,
		},
	})

	a.orders = state.OrdersReplica(logger, a.store)
	a.orders.OnReload(a.logOrders)
	a.status = state.SettingsReplica(logger, a.store)
	a.status.OnReload(a.logStatus)

	handler := router.New(logger, router.Services{
		Catalog:  a.catalog,
		Cart:     cart.NewCartService(logger, a.store),
		Orders:   orders,
		Accounts: account.NewAccountService(logger, a.store, 0),
		Settings: settings.NewSettingsService(logger, a.store),
	}, cfg.HTTP.AdminToken)

	a.server = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout + cfg.Order.ConfirmDelay,
	}

	return a, nil
}

func (a *App) initKafka() error {
	var err error
	a.producer, err = kafka.NewProducer(&kafka.ProducerConfig{
		Brokers:     a.cfg.Kafka.Brokers,
		ClientID:    a.cfg.App.Name,
		Acks:        a.cfg.Kafka.Acks,
		LingerMs:    a.cfg.Kafka.LingerMs,
		Compression: a.cfg.Kafka.Compression,
	}, a.logger)
	if err != nil {
		return err
	}
	a.relay = outbox.NewRelay(a.backend, a.producer, a.logger, a.cfg.Outbox.BatchSize, a.cfg.Outbox.PollInterval)

	// Every instance needs every event, so each gets its own group.
	handler := events.NewOrderEventHandler(a.logger, a.store)
	a.consumer, err = kafka.NewConsumer(&kafka.ConsumerConfig{
		Topics:           []string{a.cfg.Kafka.EventTopic},
		Brokers:          a.cfg.Kafka.Brokers,
		ConsumerGroup:    a.cfg.Kafka.ConsumerGroup + "-" + uuid.NewString()[:8],
		OffsetReset:      "latest",
		SessionTimeoutMs: a.cfg.Kafka.SessionTimeoutMs,
		MaxPollInterval:  a.cfg.Kafka.MaxPollInterval,
	}, handler.Handle, a.logger)
	if err != nil {
		return err
	}

	a.logger.Info("kafka connected", slog.String("brokers", a.cfg.Kafka.Brokers), slog.String("topic", a.cfg.Kafka.EventTopic))
	return nil
}

// Run serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	if err := a.catalog.Seed(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return a.server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.orders.Run(ctx)
	})
	g.Go(func() error {
		return a.status.Run(ctx)
	})
	if w, ok := a.backend.(storage.Watcher); ok {
		g.Go(func() error {
			return a.store.Follow(ctx, w)
		})
	}
	if a.relay != nil {
		g.Go(func() error {
			return a.relay.Run(ctx)
		})
	}
	if a.consumer != nil {
		g.Go(func() error {
			return a.consumer.Run(ctx)
		})
	}

	return g.Wait()
}

func (a *App) logOrders(orders []model.Order) {
	active := 0
	for _, o := range orders {
		if !o.Status.Terminal() {
			active++
		}
	}
	a.logger.Info("orders updated", slog.Int("total", len(orders)), slog.Int("active", active))
}

func (a *App) logStatus(s model.Settings) {
	a.logger.Info("store settings updated", slog.String("name", s.Name), slog.Bool("open", s.IsOpen))
}

func (a *App) close() {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("failed to close consumer", slog.Any("error", err))
		}
	}
	if a.producer != nil {
		a.producer.Close()
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("error", err))
	}
}

func newLogger(level, service string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})).
		With(slog.String("service", service))
}
