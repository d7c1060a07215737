package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-platform/internal/app/api"
	"restaurant-platform/internal/config"
	"restaurant-platform/internal/connections/database"
	"restaurant-platform/internal/connections/rabbitmq"
	"restaurant-platform/internal/domain"
	"restaurant-platform/internal/history"
	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/notify"
)

func main() {
	mode := flag.String("mode", "", "api | notification-subscriber")
	port := flag.Int("port", 3000, "api: http port")
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	migrationsDir := flag.String("migrations", "migrations", "api: path to SQL migrations")
	kitchenCapacity := flag.Int("kitchen-capacity", 3, "api: concurrent orders the kitchen prepares")
	restaurantName := flag.String("restaurant-name", "Restaurant", "api: restaurant display name")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}

	switch *mode {
	case "api":
		lg.Info("service_started", map[string]any{"service": "api", "port": *port})
		if err := runAPI(ctx, cfg, *port, *migrationsDir, *kitchenCapacity, *restaurantName); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		if err := runSubscriber(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api | notification-subscriber")
		os.Exit(2)
	}
}

func runAPI(ctx context.Context, cfg *config.Config, port int, migrationsDir string, kitchenCapacity int, restaurantName string) error {
	lg := logger.New("api")

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := history.RunMigrations(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	lg.Info("migrations_applied", map[string]any{"dir": migrationsDir})

	rmq, err := rabbitmq.Dial(rabbitmq.Config{
		Host:     cfg.RabbitMQ.Host,
		Port:     cfg.RabbitMQ.Port,
		User:     cfg.RabbitMQ.User,
		Password: cfg.RabbitMQ.Password,
		VHost:    cfg.RabbitMQ.VHost,
	})
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer rmq.Close()

	publisher, err := notify.NewPublisher(rmq)
	if err != nil {
		return fmt.Errorf("init publisher: %w", err)
	}

	rest, err := domain.NewRestaurant(restaurantName, 0, kitchenCapacity)
	if err != nil {
		return fmt.Errorf("init restaurant: %w", err)
	}

	service := api.NewService(rest, history.NewRepo(db), publisher, lg)
	handler := api.NewHandler(service, lg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting_down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runSubscriber(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("notification-subscriber")

	rmq, err := rabbitmq.Dial(rabbitmq.Config{
		Host:     cfg.RabbitMQ.Host,
		Port:     cfg.RabbitMQ.Port,
		User:     cfg.RabbitMQ.User,
		Password: cfg.RabbitMQ.Password,
		VHost:    cfg.RabbitMQ.VHost,
	})
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer rmq.Close()

	return notify.NewSubscriber(rmq, lg).Run(ctx)
}
