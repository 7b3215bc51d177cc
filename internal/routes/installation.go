package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"allocation-system/internal/controllers"
	"allocation-system/internal/services"
)

func registerInstallationRoutes(
	api *echo.Group,
	service services.InstallationServiceInterface,
	logger *zap.Logger,
) {
	ctrl := controllers.NewInstallationController(service, logger)

	api.PUT("/equipments/:id/installation", ctrl.SetInstallation)
	api.POST("/equipments/:id/installation/return", ctrl.ReturnFromInstallation)
}
