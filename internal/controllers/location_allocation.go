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

type LocationAllocationController struct {
	locationAllocationService services.LocationAllocationServiceInterface
	importer                  services.AllocationImporterInterface
	logger                    *zap.Logger
}

func NewLocationAllocationController(
	service services.LocationAllocationServiceInterface,
	importer services.AllocationImporterInterface,
	logger *zap.Logger,
) *LocationAllocationController {
	return &LocationAllocationController{
		locationAllocationService: service,
		importer:                  importer,
		logger:                    logger,
	}
}

func (c *LocationAllocationController) BuildPlan(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("BuildPlan: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.PlanRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("BuildPlan: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("BuildPlan: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.locationAllocationService.BuildPlan(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("BuildPlan: ошибка при расчёте плана", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "План перераспределения рассчитан", http.StatusOK)
}

func (c *LocationAllocationController) ReplaceAll(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("ReplaceAll: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ReplaceLocationAllocationsDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("ReplaceAll: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("ReplaceAll: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.locationAllocationService.ReplaceAll(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("ReplaceAll: ошибка при замене размещений", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Размещения по локациям успешно заменены", http.StatusOK)
}

// ImportPlan принимает xlsx-файл пересчёта в multipart-поле "file" и
// применяет его как полную замену размещений.
func (c *LocationAllocationController) ImportPlan(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		c.logger.Error("ImportPlan: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		c.logger.Error("ImportPlan: файл не приложен", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Файл не приложен к запросу", err, nil),
			c.logger,
		)
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error("ImportPlan: не удалось открыть файл", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не удалось открыть приложенный файл", err, nil),
			c.logger,
		)
	}
	defer file.Close()

	res, err := c.importer.ImportLocationPlan(ctx.Request().Context(), id, file)
	if err != nil {
		c.logger.Error("ImportPlan: ошибка при импорте плана", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "План размещения успешно импортирован", http.StatusOK)
}
