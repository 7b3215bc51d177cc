package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"allocation-system/internal/dto"
	apperrors "allocation-system/pkg/errors"
)

type AllocationImporterInterface interface {
	ImportLocationPlan(ctx context.Context, equipmentID uint64, file io.Reader) (*dto.AvailabilityDTO, error)
}

// AllocationImporter загружает план размещения из xlsx-файла пересчёта:
// первый лист, колонка A — название локации, колонка B — количество.
// Первая строка считается шапкой и пропускается. Разобранный план уходит
// в ReplaceAll и проходит все его проверки.
type AllocationImporter struct {
	locationAllocations LocationAllocationServiceInterface
	logger              *zap.Logger
}

func NewAllocationImporter(
	locationAllocations LocationAllocationServiceInterface,
	logger *zap.Logger,
) AllocationImporterInterface {
	return &AllocationImporter{
		locationAllocations: locationAllocations,
		logger:              logger,
	}
}

func (s *AllocationImporter) ImportLocationPlan(ctx context.Context, equipmentID uint64, file io.Reader) (*dto.AvailabilityDTO, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.NewValidationError(
			"не удалось прочитать xlsx-файл",
			map[string]interface{}{"equipment_id": equipmentID},
		)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError(
			"в файле нет ни одного листа",
			map[string]interface{}{"equipment_id": equipmentID},
		)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewValidationError(
			"не удалось прочитать строки листа",
			map[string]interface{}{"equipment_id": equipmentID, "sheet": sheets[0]},
		)
	}

	var payload dto.ReplaceLocationAllocationsDTO
	for i, row := range rows {
		if i == 0 {
			continue // шапка
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("строка %d: нет количества", i+1),
				map[string]interface{}{"equipment_id": equipmentID, "row": i + 1},
			)
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || quantity < 1 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("строка %d: количество %q не является положительным числом", i+1, row[1]),
				map[string]interface{}{"equipment_id": equipmentID, "row": i + 1},
			)
		}
		payload.Allocations = append(payload.Allocations, dto.LocationAllocationRowDTO{
			LocationName: strings.TrimSpace(row[0]),
			Quantity:     quantity,
		})
	}

	s.logger.Info("импорт плана размещения из xlsx",
		zap.Uint64("equipment_id", equipmentID),
		zap.Int("rows", len(payload.Allocations)),
	)

	return s.locationAllocations.ReplaceAll(ctx, equipmentID, payload)
}
