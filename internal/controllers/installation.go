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

type InstallationController struct {
	installationService services.InstallationServiceInterface
	logger              *zap.Logger
}

func NewInstallationController(
	service services.InstallationServiceInterface,
	logger *zap.Logger,
) *InstallationController {
	return &InstallationController{
		installationService: service,
		logger:              logger,
	}
}

func (c *InstallationController) SetInstallation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("SetInstallation: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SetInstallationDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("SetInstallation: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("SetInstallation: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.installationService.SetInstallation(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("SetInstallation: ошибка при изменении установки", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Установка успешно изменена", http.StatusOK)
}

func (c *InstallationController) ReturnFromInstallation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("ReturnFromInstallation: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ReturnInstallationDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("ReturnFromInstallation: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("ReturnFromInstallation: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.installationService.ReturnFromInstallation(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("ReturnFromInstallation: ошибка при возврате с установки", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Единицы успешно возвращены с установки", http.StatusOK)
}
