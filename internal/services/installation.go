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

type InstallationServiceInterface interface {
	SetInstallation(ctx context.Context, equipmentID uint64, payload dto.SetInstallationDTO) (*dto.AvailabilityDTO, error)
	ReturnFromInstallation(ctx context.Context, equipmentID uint64, payload dto.ReturnInstallationDTO) (*dto.AvailabilityDTO, error)
}

// InstallationService — постоянное и полупостоянное размещение: в отличие
// от брони под шоу, установка привязана к самой единице учёта и занимает
// единицы до явного возврата.
type InstallationService struct {
	ledger       LedgerServiceInterface
	locationRepo repositories.LocationRepositoryInterface
	retries      int
	logger       *zap.Logger
}

func NewInstallationService(
	ledger LedgerServiceInterface,
	locationRepo repositories.LocationRepositoryInterface,
	retries int,
	logger *zap.Logger,
) InstallationServiceInterface {
	return &InstallationService{
		ledger:       ledger,
		locationRepo: locationRepo,
		retries:      retries,
		logger:       logger,
	}
}

// SetInstallation задаёт тип, место и объём установки. Переключение на
// portable сбрасывает количество, место, дату и заметки.
func (s *InstallationService) SetInstallation(ctx context.Context, equipmentID uint64, payload dto.SetInstallationDTO) (*dto.AvailabilityDTO, error) {
	var ref entities.LocationRef
	if payload.InstallationType != constants.InstallationPortable {
		if payload.LocationID != nil {
			if _, err := s.locationRepo.FindLocation(ctx, *payload.LocationID); err != nil {
				if err == apperrors.ErrNotFound {
					return nil, apperrors.NewNotFoundError(fmt.Sprintf("Локация #%d не найдена", *payload.LocationID))
				}
				return nil, err
			}
			ref = entities.NamedLocation(*payload.LocationID)
		} else {
			ref = entities.CustomLocation(payload.LocationName)
		}
		if ref.IsZero() {
			return nil, apperrors.NewValidationError(
				"для не-портативной установки обязательно место",
				map[string]interface{}{"equipment_id": equipmentID, "installation_type": payload.InstallationType},
			)
		}
	}

	committed, err := mutateWithRetry(ctx, s.ledger, s.retries, s.logger, equipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		eq := fresh.Equipment

		if payload.InstallationType == constants.InstallationPortable {
			eq.InstallationType = constants.InstallationPortable
			eq.InstallationQuantity = 0
			eq.InstallationLocation = entities.LocationRef{}
			eq.InstallationDate = nil
			eq.InstallationNotes = ""
			return &entities.LedgerDelta{Equipment: &eq}, nil
		}

		// Уже установленные единицы можно переиспользовать, поэтому граница
		// шире свободного остатка.
		bound := AvailableQuantity(fresh) + fresh.InstallationQuantity()
		if payload.Quantity > bound {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("на установку запрошено %d ед., доступно только %d", payload.Quantity, bound),
				map[string]interface{}{
					"equipment_id": equipmentID,
					"requested":    payload.Quantity,
					"bound":        bound,
				},
			)
		}

		eq.InstallationType = payload.InstallationType
		eq.InstallationQuantity = payload.Quantity
		eq.InstallationLocation = ref
		eq.InstallationDate = payload.Date
		eq.InstallationNotes = payload.Notes
		return &entities.LedgerDelta{Equipment: &eq}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}

// ReturnFromInstallation возвращает часть единиц с установки на склад.
// Когда на установке не остаётся ничего, оборудование снова portable.
func (s *InstallationService) ReturnFromInstallation(ctx context.Context, equipmentID uint64, payload dto.ReturnInstallationDTO) (*dto.AvailabilityDTO, error) {
	committed, err := mutateWithRetry(ctx, s.ledger, s.retries, s.logger, equipmentID, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		installed := fresh.InstallationQuantity()
		if payload.Quantity > installed {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("на установке %d ед., вернуть %d невозможно", installed, payload.Quantity),
				map[string]interface{}{
					"equipment_id": equipmentID,
					"requested":    payload.Quantity,
					"bound":        installed,
				},
			)
		}

		eq := fresh.Equipment
		eq.InstallationQuantity = installed - payload.Quantity
		if eq.InstallationQuantity == 0 {
			eq.InstallationType = constants.InstallationPortable
			eq.InstallationLocation = entities.LocationRef{}
			eq.InstallationDate = nil
			eq.InstallationNotes = ""
		}
		return &entities.LedgerDelta{Equipment: &eq}, nil
	})
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(committed)
	return &summary, nil
}
