package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"allocation-system/internal/dto"
	"allocation-system/internal/entities"
	"allocation-system/internal/listeners"
	"allocation-system/internal/repositories"
	"allocation-system/pkg/constants"
)

// --- Чистый калькулятор доступности. Никаких побочных эффектов: все
// функции считают по переданной раскладке и больше никуда не ходят. ---

// AvailableQuantity = total - (локации + активные брони + установка).
func AvailableQuantity(b *entities.Breakdown) int {
	return b.Equipment.TotalQuantity - b.LocationsSum() - b.ActiveShowsSum() - b.InstallationQuantity()
}

// EffectivelyAvailableForUpdate — доступно для правки существующей брони:
// её собственные удерживаемые единицы не считаются занятыми против неё же.
func EffectivelyAvailableForUpdate(b *entities.Breakdown, currentQuantity int) int {
	return AvailableQuantity(b) + currentQuantity
}

// BuildAvailability собирает полную сводку с разрезами по статусам и
// предупреждениями.
func BuildAvailability(b *entities.Breakdown) dto.AvailabilityDTO {
	summary := dto.AvailabilityDTO{
		EquipmentID:             b.Equipment.ID,
		TotalQuantity:           b.Equipment.TotalQuantity,
		AvailableQuantity:       AvailableQuantity(b),
		TotalAllocated:          b.LocationsSum(),
		ShowAllocated:           b.ActiveShowsSum(),
		InstallationQuantity:    b.InstallationQuantity(),
		DefaultStorage:          b.DefaultStorage(),
		EffectivelyAvailable:    AvailableQuantity(b),
		ShowStatusBreakdown:     make(map[string]int),
		LocationStatusBreakdown: make(map[string]int),
	}

	for i := range b.Shows {
		alloc := &b.Shows[i]
		summary.ShowStatusBreakdown[alloc.Status] += alloc.QuantityAllocated
	}
	for _, loc := range b.Locations {
		summary.LocationStatusBreakdown[loc.Status] += loc.Quantity
	}

	// Ноль доступных — ещё не приговор: единицы, удерживаемые бронями в
	// статусе requested, физически не выданы и могут освободиться.
	if summary.AvailableQuantity == 0 {
		if pending := summary.ShowStatusBreakdown[constants.ShowStatusRequested]; pending > 0 {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf(
				"доступных единиц нет, но %d ед. удерживаются бронями в статусе requested и могут освободиться", pending))
		}
	}

	return summary
}

// --- Сервис с кешем поверх калькулятора. ---

type AvailabilityServiceInterface interface {
	GetAvailability(ctx context.Context, equipmentID uint64) (*dto.AvailabilityDTO, error)
}

type AvailabilityService struct {
	ledger    LedgerServiceInterface
	cacheRepo repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewAvailabilityService(
	ledger LedgerServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) AvailabilityServiceInterface {
	return &AvailabilityService{
		ledger:    ledger,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *AvailabilityService) GetAvailability(ctx context.Context, equipmentID uint64) (*dto.AvailabilityDTO, error) {
	cacheKey := listeners.AvailabilityCacheKey(equipmentID)

	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached != "" {
			var summary dto.AvailabilityDTO
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
			// Битый кеш просто игнорируем и пересчитываем.
		}
	}

	breakdown, err := s.ledger.CurrentBreakdown(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	summary := BuildAvailability(breakdown)

	if s.cacheRepo != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cacheRepo.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("не удалось записать сводку в кеш",
					zap.Uint64("equipment_id", equipmentID), zap.Error(err))
			}
		}
	}

	return &summary, nil
}
