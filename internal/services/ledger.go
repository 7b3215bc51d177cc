package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"allocation-system/internal/entities"
	"allocation-system/internal/events"
	"allocation-system/internal/repositories"
	apperrors "allocation-system/pkg/errors"
	"allocation-system/pkg/eventbus"
	"allocation-system/pkg/locker"
)

// MutationFn строит дельту по САМОМУ СВЕЖЕМУ снимку раскладки. Вызывается
// уже под блокировкой оборудования, поэтому проверки внутри неё закрывают
// окно гонки между чьей-либо предварительной валидацией и коммитом.
// Возврат ошибки отменяет мутацию без следов.
type MutationFn func(fresh *entities.Breakdown) (*entities.LedgerDelta, error)

type LedgerServiceInterface interface {
	CurrentBreakdown(ctx context.Context, equipmentID uint64) (*entities.Breakdown, error)
	Mutate(ctx context.Context, equipmentID uint64, fn MutationFn) (*entities.Breakdown, error)
}

// LedgerService — единственная точка записи раскладки. Последовательность
// под блокировкой: свежий снимок -> дельта -> ПОСЛЕ-состояние -> инварианты
// -> атомарный коммит -> событие. Мутации одного оборудования видны в
// тотальном порядке; разные id не конкурируют.
type LedgerService struct {
	ledgerRepo repositories.LedgerRepositoryInterface
	locks      *locker.KeyedLocker
	bus        *eventbus.Bus
	logger     *zap.Logger
}

func NewLedgerService(
	ledgerRepo repositories.LedgerRepositoryInterface,
	locks *locker.KeyedLocker,
	bus *eventbus.Bus,
	logger *zap.Logger,
) LedgerServiceInterface {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		locks:      locks,
		bus:        bus,
		logger:     logger,
	}
}

// mutateWithRetry повторяет мутацию ограниченное число раз, если не удалось
// взять блокировку оборудования. Все остальные ошибки всплывают сразу.
func mutateWithRetry(ctx context.Context, ledger LedgerServiceInterface, retries int, logger *zap.Logger, equipmentID uint64, fn MutationFn) (*entities.Breakdown, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		committed, err := ledger.Mutate(ctx, equipmentID, fn)
		if err == nil {
			return committed, nil
		}
		if !apperrors.IsKind(err, apperrors.KindConcurrency) {
			return nil, err
		}
		lastErr = err
		logger.Warn("блокировка оборудования занята, повтор мутации",
			zap.Uint64("equipment_id", equipmentID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

func (s *LedgerService) CurrentBreakdown(ctx context.Context, equipmentID uint64) (*entities.Breakdown, error) {
	breakdown, err := s.ledgerRepo.GetBreakdown(ctx, equipmentID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Оборудование не найдено")
		}
		return nil, err
	}
	return breakdown, nil
}

func (s *LedgerService) Mutate(ctx context.Context, equipmentID uint64, fn MutationFn) (*entities.Breakdown, error) {
	unlock, err := s.locks.Lock(ctx, equipmentID)
	if err != nil {
		return nil, apperrors.NewConcurrencyError("Оборудование занято другой операцией, повторите запрос")
	}
	defer unlock()

	prev, err := s.ledgerRepo.GetBreakdown(ctx, equipmentID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Оборудование не найдено")
		}
		return nil, err
	}

	delta, err := fn(prev)
	if err != nil {
		return nil, err
	}
	if delta == nil {
		// Мутация выродилась в no-op: фиксировать нечего.
		return prev, nil
	}
	if delta.OperationID == uuid.Nil {
		delta.OperationID = uuid.New()
	}

	// Инварианты проверяются по ПОСЛЕ-состоянию до какой-либо записи.
	// Нарушение здесь недостижимо при корректных пред-проверках сервисов
	// и означает внутреннюю ошибку, а не ошибку пользователя.
	next := delta.Apply(prev)
	if err := next.Validate(); err != nil {
		s.logger.Error("мутация отклонена: нарушение инварианта после применения дельты",
			zap.Uint64("equipment_id", equipmentID),
			zap.String("operation_id", delta.OperationID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	committed, err := s.ledgerRepo.ApplyDelta(ctx, equipmentID, delta)
	if err != nil {
		s.logger.Error("не удалось зафиксировать дельту леджера",
			zap.Uint64("equipment_id", equipmentID),
			zap.Error(err),
		)
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.EquipmentChangedEvent{
			EquipmentID: equipmentID,
			ShowIDs:     delta.TouchedShowIDs(prev),
			OperationID: delta.OperationID.String(),
		})
	}

	return committed, nil
}
