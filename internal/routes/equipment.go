package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"allocation-system/internal/controllers"
	"allocation-system/internal/services"
)

func registerEquipmentRoutes(
	api *echo.Group,
	equipmentService services.EquipmentServiceInterface,
	availabilityService services.AvailabilityServiceInterface,
	logger *zap.Logger,
) {
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	availabilityCtrl := controllers.NewAvailabilityController(availabilityService, logger)

	api.GET("/equipments", equipmentCtrl.GetEquipments)
	api.GET("/equipments/:id", equipmentCtrl.FindEquipment)
	api.PUT("/equipments/:id/total-quantity", equipmentCtrl.UpdateTotalQuantity)
	api.GET("/equipments/:id/availability", availabilityCtrl.GetAvailability)
}
