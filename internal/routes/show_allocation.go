package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"allocation-system/internal/controllers"
	"allocation-system/internal/services"
)

func registerShowAllocationRoutes(
	api *echo.Group,
	service services.ShowAllocationServiceInterface,
	logger *zap.Logger,
) {
	ctrl := controllers.NewShowAllocationController(service, logger)

	api.POST("/show-allocations", ctrl.AllocateToShow)
	api.PUT("/show-allocations/:id", ctrl.UpdateShowAllocation)
	api.POST("/show-allocations/:id/validate-status", ctrl.ValidateStatusChange)
	api.DELETE("/show-allocations/:id", ctrl.RemoveShowAllocation)
}
