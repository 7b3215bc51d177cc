package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"allocation-system/internal/controllers"
	"allocation-system/internal/services"
)

func registerLocationAllocationRoutes(
	api *echo.Group,
	service services.LocationAllocationServiceInterface,
	importer services.AllocationImporterInterface,
	logger *zap.Logger,
) {
	ctrl := controllers.NewLocationAllocationController(service, importer, logger)

	api.POST("/equipments/:id/location-allocations/plan", ctrl.BuildPlan)
	api.PUT("/equipments/:id/location-allocations", ctrl.ReplaceAll)
	api.POST("/equipments/:id/location-allocations/import", ctrl.ImportPlan)
}
