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

type ShowAllocationServiceInterface interface {
	AllocateToShow(ctx context.Context, payload dto.CreateShowAllocationDTO) (*dto.AvailabilityDTO, error)
	UpdateShowAllocation(ctx context.Context, allocationID uint64, payload dto.UpdateShowAllocationDTO) (*dto.AvailabilityDTO, error)
	ValidateStatusChange(ctx context.Context, allocationID uint64, payload dto.ValidateStatusDTO) (*dto.TransitionResultDTO, error)
	RemoveShowAllocation(ctx context.Context, allocationID uint64) (*dto.AvailabilityDTO, error)
}

// ShowAllocationService управляет бронями оборудования под шоу и их
// жизненным циклом requested -> allocated -> checked-out -> in-use ->
// returned. Переходы допустимы в любом направлении между живыми статусами;
// returned — терминальный.
type ShowAllocationService struct {
	ledger     LedgerServiceInterface
	ledgerRepo repositories.LedgerRepositoryInterface
	showRepo   repositories.ShowRepositoryInterface
	retries    int
	logger     *zap.Logger
}

func NewShowAllocationService(
	ledger LedgerServiceInterface,
	ledgerRepo repositories.LedgerRepositoryInterface,
	showRepo repositories.ShowRepositoryInterface,
	retries int,
	logger *zap.Logger,
) ShowAllocationServiceInterface {
	return &ShowAllocationService{
		ledger:     ledger,
		ledgerRepo: ledgerRepo,
		showRepo:   showRepo,
		retries:    retries,
		logger:     logger,
	}
}

func (s *ShowAllocationService) mutateWithRetry(ctx context.Context, equipmentID uint64, fn MutationFn) (*entities.Breakdown, error) {
	return mutateWithRetry(ctx, s.ledger, s.retries, s.logger, equipmentID, fn)
}

// AllocateToShow выделяет оборудование под шоу. Повторный вызов по той же
// паре (show_id, equipment_id) обновляет существующую бронь; бронь в статусе
// returned при этом пересоздаётся заново со статусом requested.
func (s *ShowAllocationService) AllocateToShow(ctx context.Context, payload dto.CreateShowAllocationDTO) (*dto.AvailabilityDTO, error) {
	if _, err := s.showRepo.FindShow(ctx, payload.ShowID); err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Шоу не найдено")
		}
		return nil, err
	}

	committed, err := s.mutateWithRetry(ctx, payload.EquipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		existing := fresh.FindShowAllocationByShow(payload.ShowID)

		current := 0
		if existing != nil {
			current = existing.CommittedQuantity()
		}
		bound := EffectivelyAvailableForUpdate(fresh, current)
		if payload.QuantityNeeded > bound {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("запрошено %d ед., доступно только %d", payload.QuantityNeeded, bound),
				map[string]interface{}{
					"equipment_id": payload.EquipmentID,
					"show_id":      payload.ShowID,
					"requested":    payload.QuantityNeeded,
					"bound":        bound,
				},
			)
		}

		// Выделение удерживает единицы сразу: quantity_allocated следует
		// за quantity_needed, статус живой брони не трогаем.
		up := entities.ShowAllocation{
			EquipmentID:       payload.EquipmentID,
			ShowID:            payload.ShowID,
			QuantityNeeded:    payload.QuantityNeeded,
			QuantityAllocated: payload.QuantityNeeded,
			Status:            constants.ShowStatusRequested,
			Notes:             payload.Notes,
		}
		if existing != nil {
			up.ID = existing.ID
			if !existing.IsReturned() {
				up.Status = existing.Status
			}
			if payload.Notes == "" {
				up.Notes = existing.Notes
			}
		}

		return &entities.LedgerDelta{UpsertShows: []entities.ShowAllocation{up}}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}

// UpdateShowAllocation — частичное обновление брони. Смена статуса проходит
// полную валидацию перехода по самому свежему снимку уже под блокировкой.
func (s *ShowAllocationService) UpdateShowAllocation(ctx context.Context, allocationID uint64, payload dto.UpdateShowAllocationDTO) (*dto.AvailabilityDTO, error) {
	stale, err := s.findAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	committed, err := s.mutateWithRetry(ctx, stale.EquipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		alloc := fresh.FindShowAllocation(allocationID)
		if alloc == nil {
			return nil, apperrors.NewNotFoundError("Бронь не найдена")
		}

		up := *alloc
		if payload.QuantityNeeded.Valid {
			up.QuantityNeeded = int(payload.QuantityNeeded.Int)
		}
		if payload.QuantityAllocated.Valid {
			up.QuantityAllocated = int(payload.QuantityAllocated.Int)
		}
		if payload.Notes.Valid {
			up.Notes = payload.Notes.String
		}

		if payload.Status.Valid && payload.Status.String != alloc.Status {
			if !constants.IsKnownShowStatus(payload.Status.String) {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("неизвестный статус %q", payload.Status.String),
					map[string]interface{}{"allocation_id": allocationID},
				)
			}
			// Переход проверяется уже с учётом патча количеств.
			result := validateTransition(fresh, &up, payload.Status.String, up.QuantityAllocated)
			if !result.Valid {
				return nil, transitionConflictError(result)
			}
			up.Status = payload.Status.String
		}

		if up.QuantityNeeded < 1 {
			return nil, apperrors.NewValidationError(
				"количество по брони должно быть не меньше 1",
				map[string]interface{}{"allocation_id": allocationID, "bound": 1},
			)
		}
		if up.QuantityAllocated > up.QuantityNeeded {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("выделено %d ед. при потребности %d", up.QuantityAllocated, up.QuantityNeeded),
				map[string]interface{}{"allocation_id": allocationID, "bound": up.QuantityNeeded},
			)
		}

		bound := EffectivelyAvailableForUpdate(fresh, alloc.CommittedQuantity())
		if up.CommittedQuantity() > bound {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("запрошено %d ед., доступно только %d", up.CommittedQuantity(), bound),
				map[string]interface{}{"allocation_id": allocationID, "bound": bound},
			)
		}

		return &entities.LedgerDelta{UpsertShows: []entities.ShowAllocation{up}}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}

// ValidateStatusChange — предварительная проверка перехода без коммита.
// Конфликты возвращаются как данные, не как ошибка: вызывающая сторона
// показывает их до того, как решит коммитить.
func (s *ShowAllocationService) ValidateStatusChange(ctx context.Context, allocationID uint64, payload dto.ValidateStatusDTO) (*dto.TransitionResultDTO, error) {
	stale, err := s.findAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.ledger.CurrentBreakdown(ctx, stale.EquipmentID)
	if err != nil {
		return nil, err
	}
	alloc := breakdown.FindShowAllocation(allocationID)
	if alloc == nil {
		return nil, apperrors.NewNotFoundError("Бронь не найдена")
	}

	quantity := alloc.QuantityAllocated
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}
	return validateTransition(breakdown, alloc, payload.Status, quantity), nil
}

// RemoveShowAllocation удаляет бронь; её единицы возвращаются на склад.
func (s *ShowAllocationService) RemoveShowAllocation(ctx context.Context, allocationID uint64) (*dto.AvailabilityDTO, error) {
	stale, err := s.findAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	committed, err := s.mutateWithRetry(ctx, stale.EquipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		if fresh.FindShowAllocation(allocationID) == nil {
			return nil, apperrors.NewNotFoundError("Бронь не найдена")
		}
		return &entities.LedgerDelta{DeleteShowIDs: []uint64{allocationID}}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}

func (s *ShowAllocationService) findAllocation(ctx context.Context, allocationID uint64) (*entities.ShowAllocation, error) {
	alloc, err := s.ledgerRepo.FindShowAllocation(ctx, allocationID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Бронь не найдена")
		}
		return nil, err
	}
	return alloc, nil
}

// validateTransition проверяет переход брони в новый статус с количеством
// quantity. Конфликты блокируют переход, предупреждения нет.
func validateTransition(b *entities.Breakdown, alloc *entities.ShowAllocation, newStatus string, quantity int) *dto.TransitionResultDTO {
	result := &dto.TransitionResultDTO{}

	if alloc.IsReturned() {
		result.Conflicts = append(result.Conflicts, conflictOf(alloc, "бронь в статусе returned не оживает, создайте новую"))
	}

	if quantity > alloc.QuantityNeeded {
		result.Conflicts = append(result.Conflicts, conflictOf(alloc,
			fmt.Sprintf("количество %d превышает потребность %d", quantity, alloc.QuantityNeeded)))
	}

	// Выдача со склада: суммарные обязательства по пересекающимся датам не
	// могут превысить общее количество оборудования.
	if constants.IsCommittedShowStatus(newStatus) {
		committed := quantity
		var blockers []dto.ConflictDTO
		for i := range b.Shows {
			other := &b.Shows[i]
			if other.ID == alloc.ID || other.IsReturned() {
				continue
			}
			if !constants.IsCommittedShowStatus(other.Status) {
				continue
			}
			if !alloc.Show.Overlaps(other.Show) {
				continue
			}
			committed += other.QuantityAllocated
			blockers = append(blockers, conflictOf(other,
				fmt.Sprintf("удерживает %d ед. в статусе %s с пересекающимися датами", other.QuantityAllocated, other.Status)))
		}
		if committed > b.Equipment.TotalQuantity {
			if len(blockers) == 0 {
				blockers = append(blockers, conflictOf(alloc,
					fmt.Sprintf("запрошено %d ед. при общем количестве %d", quantity, b.Equipment.TotalQuantity)))
			}
			result.Conflicts = append(result.Conflicts, blockers...)
		}
	}

	if newStatus == constants.ShowStatusAllocated && quantity < alloc.QuantityNeeded {
		result.Missing = alloc.QuantityNeeded - quantity
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("недостача: выделено %d ед. из %d", quantity, alloc.QuantityNeeded))
	}

	result.Valid = len(result.Conflicts) == 0
	return result
}

func conflictOf(alloc *entities.ShowAllocation, reason string) dto.ConflictDTO {
	c := dto.ConflictDTO{
		AllocationID: alloc.ID,
		ShowID:       alloc.ShowID,
		Status:       alloc.Status,
		Quantity:     alloc.QuantityAllocated,
		Reason:       reason,
	}
	if alloc.Show != nil {
		c.ShowName = alloc.Show.Name
	}
	return c
}

func transitionConflictError(result *dto.TransitionResultDTO) error {
	return apperrors.NewConflictError(
		"переход статуса заблокирован другими бронями",
		map[string]interface{}{
			"conflicts": result.Conflicts,
			"warnings":  result.Warnings,
		},
	)
}
