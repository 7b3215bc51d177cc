package controllers

import (
	"net/http"
	"strconv"

	"allocation-system/internal/dto"
	"allocation-system/internal/services"
	apperrors "allocation-system/pkg/errors"
	"allocation-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipments: ошибка при получении списка оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Список оборудования успешно получен", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("FindEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindEquipment: ошибка при поиске оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно найдено", http.StatusOK)
}

func (c *EquipmentController) UpdateTotalQuantity(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("UpdateTotalQuantity: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateTotalQuantityDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateTotalQuantity: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("UpdateTotalQuantity: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.UpdateTotalQuantity(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("UpdateTotalQuantity: ошибка при изменении общего количества", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Общее количество успешно изменено", http.StatusOK)
}

// parseIDParam разбирает числовой path-параметр; ошибка сразу в формате
// HttpError, чтобы контроллеры не собирали её каждый раз заново.
func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID в пути запроса",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}
