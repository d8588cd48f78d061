package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shipment-service/internal/api/http"
	"github.com/spec-kit/shipment-service/internal/api/http/handlers"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/config"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/observability"
	"github.com/spec-kit/shipment-service/internal/persistence"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/service"
	"github.com/spec-kit/shipment-service/internal/storage"
	"github.com/spec-kit/shipment-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		shipmentRepo     repository.ShipmentRepository
		userRepo         repository.UserRepository
		orderRepo        repository.OrderRepository
		vehicleRepo      repository.VehicleRepository
		notificationRepo repository.NotificationRepository
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if pg.PoolHandle() == nil {
			logger.Fatal("STORAGE_DRIVER=postgres requires POSTGRES_DSN")
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pool := pg.PoolHandle()
		shipmentRepo = repository.NewPostgresShipmentRepository(pool)
		userRepo = repository.NewPostgresUserRepository(pool)
		orderRepo = repository.NewPostgresOrderRepository(pool)
		vehicleRepo = repository.NewPostgresVehicleRepository(pool)
		notificationRepo = repository.NewPostgresNotificationRepository(pool)
	default:
		db, err := storage.NewFileDB(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("failed to open file store", zap.Error(err))
		}
		shipmentRepo = repository.NewFileShipmentRepository(db)
		userRepo = repository.NewFileUserRepository(db)
		orderRepo = repository.NewFileOrderRepository(db)
		vehicleRepo = repository.NewFileVehicleRepository(db)
		notificationRepo = repository.NewFileNotificationRepository(db)
	}
	logger.Info("storage backend selected", zap.String("driver", cfg.Storage.Driver))

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()

	shipmentService := service.NewShipmentService(shipmentRepo, dispatcher)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger)
	orderService := service.NewOrderService(orderRepo, shipmentService)
	vehicleService := service.NewVehicleService(vehicleRepo)
	authService := service.NewAuthService(cfg.Auth, userRepo)

	worker.StartNotificationWorker(notificationService)

	if cfg.Auth.SeedAdmin {
		if err := authService.EnsureDefaultAdmin(ctx, logger); err != nil {
			logger.Fatal("failed to seed default admin", zap.Error(err))
		}
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Shipments:      handlers.NewShipmentsHandler(shipmentService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Vehicles:       handlers.NewVehiclesHandler(vehicleService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
