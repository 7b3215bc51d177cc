package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"allocation-system/internal/controllers"
	"allocation-system/internal/listeners"
	"allocation-system/internal/queue"
	"allocation-system/internal/repositories"
	"allocation-system/internal/services"
	"allocation-system/pkg/config"
	"allocation-system/pkg/eventbus"
	"allocation-system/pkg/locker"
	"allocation-system/pkg/websocket"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")

	// --- 1. РЕПОЗИТОРИИ И ИНФРАСТРУКТУРА ---
	txManager := repositories.NewTxManager(dbConn)
	ledgerRepo := repositories.NewLedgerRepository(dbConn, txManager, logger)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	showRepo := repositories.NewShowRepository(dbConn)
	locationRepo := repositories.NewLocationRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	locks := locker.New(cfg.Ledger.LockTimeout)
	publisher := queue.NewPublisher(cfg.Amqp, logger)

	// Слушатель инвалидации: кеш, websocket, очередь.
	listeners.NewInvalidationListener(cacheRepo, hub, publisher, logger).Register(bus)

	// --- 2. СЕРВИСЫ ---
	retries := cfg.Ledger.CommitRetries
	ledgerService := services.NewLedgerService(ledgerRepo, locks, bus, logger)
	availabilityService := services.NewAvailabilityService(ledgerService, cacheRepo, cfg.Ledger.AvailabilityTTL, logger)
	showAllocationService := services.NewShowAllocationService(ledgerService, ledgerRepo, showRepo, retries, logger)
	locationAllocationService := services.NewLocationAllocationService(ledgerService, locationRepo, retries, logger)
	installationService := services.NewInstallationService(ledgerService, locationRepo, retries, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, ledgerService, retries, logger)
	importer := services.NewAllocationImporter(locationAllocationService, logger)

	// --- 3. КОНТРОЛЛЕРЫ И МАРШРУТЫ ---
	registerEquipmentRoutes(api, equipmentService, availabilityService, logger)
	registerShowAllocationRoutes(api, showAllocationService, logger)
	registerLocationAllocationRoutes(api, locationAllocationService, importer, logger)
	registerInstallationRoutes(api, installationService, logger)

	wsCtrl := controllers.NewWebSocketController(hub, logger)
	e.GET("/ws/notifications", wsCtrl.ServeWs)

	logger.Info("InitRouter: маршруты созданы")
}
