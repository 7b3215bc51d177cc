package controllers

import (
	"net/http"

	"allocation-system/internal/dto"
	"allocation-system/internal/services"
	apperrors "allocation-system/pkg/errors"
	"allocation-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ShowAllocationController struct {
	showAllocationService services.ShowAllocationServiceInterface
	logger                *zap.Logger
}

func NewShowAllocationController(
	service services.ShowAllocationServiceInterface,
	logger *zap.Logger,
) *ShowAllocationController {
	return &ShowAllocationController{
		showAllocationService: service,
		logger:                logger,
	}
}

func (c *ShowAllocationController) AllocateToShow(ctx echo.Context) error {
	var payload dto.CreateShowAllocationDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("AllocateToShow: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("AllocateToShow: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.showAllocationService.AllocateToShow(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("AllocateToShow: ошибка при выделении оборудования под шоу",
			zap.Uint64("equipment_id", payload.EquipmentID),
			zap.Uint64("show_id", payload.ShowID),
			zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно выделено под шоу", http.StatusOK)
}

func (c *ShowAllocationController) UpdateShowAllocation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("UpdateShowAllocation: некорректный ID брони", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateShowAllocationDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateShowAllocation: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	res, err := c.showAllocationService.UpdateShowAllocation(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("UpdateShowAllocation: ошибка при обновлении брони", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Бронь успешно обновлена", http.StatusOK)
}

func (c *ShowAllocationController) ValidateStatusChange(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("ValidateStatusChange: некорректный ID брони", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ValidateStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("ValidateStatusChange: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("ValidateStatusChange: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.showAllocationService.ValidateStatusChange(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("ValidateStatusChange: ошибка при проверке перехода", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Проверка перехода выполнена", http.StatusOK)
}

func (c *ShowAllocationController) RemoveShowAllocation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("RemoveShowAllocation: некорректный ID брони", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.showAllocationService.RemoveShowAllocation(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("RemoveShowAllocation: ошибка при удалении брони", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Бронь успешно удалена, единицы возвращены на склад", http.StatusOK)
}
