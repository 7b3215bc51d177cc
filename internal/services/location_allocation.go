package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"allocation-system/internal/dto"
	"allocation-system/internal/entities"
	"allocation-system/internal/repositories"
	"allocation-system/pkg/constants"
	apperrors "allocation-system/pkg/errors"
)

type LocationAllocationServiceInterface interface {
	BuildPlan(ctx context.Context, equipmentID uint64, payload dto.PlanRequestDTO) (*dto.PlanResponseDTO, error)
	ReplaceAll(ctx context.Context, equipmentID uint64, payload dto.ReplaceLocationAllocationsDTO) (*dto.AvailabilityDTO, error)
}

// LocationAllocationService управляет набором размещений оборудования по
// локациям: расчёт плана перераспределения без коммита и атомарная замена
// всего набора одной дельтой леджера.
type LocationAllocationService struct {
	ledger       LedgerServiceInterface
	locationRepo repositories.LocationRepositoryInterface
	retries      int
	logger       *zap.Logger
}

func NewLocationAllocationService(
	ledger LedgerServiceInterface,
	locationRepo repositories.LocationRepositoryInterface,
	retries int,
	logger *zap.Logger,
) LocationAllocationServiceInterface {
	return &LocationAllocationService{
		ledger:       ledger,
		locationRepo: locationRepo,
		retries:      retries,
		logger:       logger,
	}
}

// TotalForAllocation — объём, который план волен распределить: свободный
// остаток плюс всё, что уже лежит по локациям (эти единицы
// перераспределяются, а не занимаются заново).
func TotalForAllocation(b *entities.Breakdown) int {
	return AvailableQuantity(b) + b.LocationsSum()
}

// BuildPlan рассчитывает план без коммита. split-equal делит поровну,
// раздавая остаток по одной единице первым строкам в порядке запроса;
// move-all назначает весь объём первой строке.
func (s *LocationAllocationService) BuildPlan(ctx context.Context, equipmentID uint64, payload dto.PlanRequestDTO) (*dto.PlanResponseDTO, error) {
	breakdown, err := s.ledger.CurrentBreakdown(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	total := TotalForAllocation(breakdown)
	rows := make([]dto.LocationAllocationRowDTO, len(payload.Locations))
	copy(rows, payload.Locations)

	switch payload.Mode {
	case "move-all":
		rows = rows[:1]
		rows[0].Quantity = total
	default: // split-equal
		base := total / len(rows)
		remainder := total % len(rows)
		for i := range rows {
			rows[i].Quantity = base
			if i < remainder {
				rows[i].Quantity++
			}
		}
	}

	// Нулевые строки из плана выпадают: строка размещения всегда держит
	// хотя бы одну единицу.
	kept := rows[:0]
	for _, row := range rows {
		if row.Quantity > 0 {
			kept = append(kept, row)
		}
	}

	return &dto.PlanResponseDTO{
		TotalForAllocation: total,
		Rows:               kept,
	}, nil
}

// ReplaceAll атомарно заменяет весь набор размещений. План с дубликатом
// локации или с суммой сверх доступного объёма отклоняется целиком.
// Пустой план допустим: все единицы возвращаются на склад.
func (s *LocationAllocationService) ReplaceAll(ctx context.Context, equipmentID uint64, payload dto.ReplaceLocationAllocationsDTO) (*dto.AvailabilityDTO, error) {
	rows, err := s.resolveRows(ctx, equipmentID, payload.Allocations)
	if err != nil {
		return nil, err
	}

	committed, err := mutateWithRetry(ctx, s.ledger, s.retries, s.logger, equipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		planSum := 0
		for _, row := range rows {
			planSum += row.Quantity
		}
		bound := TotalForAllocation(fresh)
		if planSum > bound {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("план распределяет %d ед., доступно только %d", planSum, bound),
				map[string]interface{}{
					"equipment_id": equipmentID,
					"plan_sum":     planSum,
					"bound":        bound,
				},
			)
		}
		return &entities.LedgerDelta{ReplaceLocations: &rows}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}

// resolveRows переводит строки плана в сущности: собирает LocationRef,
// проверяет дубликаты и существование именованных локаций, выводит статус.
func (s *LocationAllocationService) resolveRows(ctx context.Context, equipmentID uint64, rows []dto.LocationAllocationRowDTO) ([]entities.LocationAllocation, error) {
	resolved := make([]entities.LocationAllocation, 0, len(rows))
	seen := make(map[string]string, len(rows))

	for i, row := range rows {
		var ref entities.LocationRef
		if row.LocationID != nil {
			if _, err := s.locationRepo.FindLocation(ctx, *row.LocationID); err != nil {
				if err == apperrors.ErrNotFound {
					return nil, apperrors.NewNotFoundError(fmt.Sprintf("Локация #%d не найдена", *row.LocationID))
				}
				return nil, err
			}
			ref = entities.NamedLocation(*row.LocationID)
		} else {
			ref = entities.CustomLocation(row.LocationName)
		}
		if ref.IsZero() {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("строка %d плана не ссылается ни на одну локацию", i+1),
				map[string]interface{}{"equipment_id": equipmentID, "row": i + 1},
			)
		}

		key := ref.Key()
		if prev, ok := seen[key]; ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("локация %q встречается в плане дважды", prev),
				map[string]interface{}{"equipment_id": equipmentID, "location": prev},
			)
		}
		seen[key] = ref.String()

		status := row.Status
		if status == "" {
			status = deriveLocationStatus(ref)
		}
		if !constants.IsKnownLocationStatus(status) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("неизвестный статус размещения %q", status),
				map[string]interface{}{"equipment_id": equipmentID, "row": i + 1},
			)
		}

		resolved = append(resolved, entities.LocationAllocation{
			EquipmentID: equipmentID,
			Location:    ref,
			Quantity:    row.Quantity,
			Status:      status,
			Notes:       row.Notes,
		})
	}

	return resolved, nil
}

// deriveLocationStatus — чистое правило вывода статуса по ссылке на локацию.
// Применяется один раз при записи, а не размазано по вызывающим сторонам.
func deriveLocationStatus(ref entities.LocationRef) string {
	return constants.LocationStatusAllocated
}
