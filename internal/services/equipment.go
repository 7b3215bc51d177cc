package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"allocation-system/internal/dto"
	"allocation-system/internal/entities"
	"allocation-system/internal/repositories"
	apperrors "allocation-system/pkg/errors"
	"allocation-system/pkg/types"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	UpdateTotalQuantity(ctx context.Context, equipmentID uint64, payload dto.UpdateTotalQuantityDTO) (*dto.AvailabilityDTO, error)
}

// EquipmentService — справочник оборудования плюс охраняемая правка общего
// количества.
type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	ledger        LedgerServiceInterface
	retries       int
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	ledger LedgerServiceInterface,
	retries int,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		ledger:        ledger,
		retries:       retries,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Оборудование не найдено")
		}
		return nil, err
	}
	return equipment, nil
}

// UpdateTotalQuantity меняет общее количество единиц. Правка ниже суммы уже
// закоммиченных корзин отклоняется: движок никогда молча не ужимает чужие
// размещения и брони.
func (s *EquipmentService) UpdateTotalQuantity(ctx context.Context, equipmentID uint64, payload dto.UpdateTotalQuantityDTO) (*dto.AvailabilityDTO, error) {
	committed, err := mutateWithRetry(ctx, s.ledger, s.retries, s.logger, equipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		held := fresh.LocationsSum() + fresh.ActiveShowsSum() + fresh.InstallationQuantity()
		if payload.TotalQuantity < held {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("по корзинам уже распределено %d ед., общее количество не может стать %d", held, payload.TotalQuantity),
				map[string]interface{}{
					"equipment_id": equipmentID,
					"requested":    payload.TotalQuantity,
					"bound":        held,
				},
			)
		}
		if payload.TotalQuantity == fresh.Equipment.TotalQuantity {
			return nil, nil
		}

		eq := fresh.Equipment
		eq.TotalQuantity = payload.TotalQuantity
		return &entities.LedgerDelta{Equipment: &eq}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}
