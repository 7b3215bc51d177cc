package controllers

import (
	"net/http"

	"allocation-system/internal/services"
	"allocation-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AvailabilityController struct {
	availabilityService services.AvailabilityServiceInterface
	logger              *zap.Logger
}

func NewAvailabilityController(
	service services.AvailabilityServiceInterface,
	logger *zap.Logger,
) *AvailabilityController {
	return &AvailabilityController{
		availabilityService: service,
		logger:              logger,
	}
}

func (c *AvailabilityController) GetAvailability(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("GetAvailability: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.availabilityService.GetAvailability(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("GetAvailability: ошибка при расчёте доступности", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Сводка доступности успешно получена", http.StatusOK)
}
