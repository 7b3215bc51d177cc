package listeners

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"allocation-system/internal/events"
	"allocation-system/internal/queue"
	"allocation-system/internal/repositories"
	"allocation-system/pkg/eventbus"
	"allocation-system/pkg/websocket"
)

// InvalidationListener превращает событие equipment.changed в точечные
// действия: сброс кеша сводки, push подписчикам, сообщение в очередь.
// Ключи строятся из payload события — никакого "сбросить всё".
type InvalidationListener struct {
	cacheRepo repositories.CacheRepositoryInterface
	hub       *websocket.Hub
	publisher queue.PublisherInterface
	logger    *zap.Logger
}

func NewInvalidationListener(
	cacheRepo repositories.CacheRepositoryInterface,
	hub *websocket.Hub,
	publisher queue.PublisherInterface,
	logger *zap.Logger,
) *InvalidationListener {
	return &InvalidationListener{
		cacheRepo: cacheRepo,
		hub:       hub,
		publisher: publisher,
		logger:    logger,
	}
}

// Register подписывает слушателя на шину.
func (l *InvalidationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentChangedEvent{}.Name(), l.handleEquipmentChanged)
}

func AvailabilityCacheKey(equipmentID uint64) string {
	return fmt.Sprintf("availability:%d", equipmentID)
}

func showCacheKey(showID uint64) string {
	return fmt.Sprintf("show-allocations:%d", showID)
}

func (l *InvalidationListener) handleEquipmentChanged(ctx context.Context, event eventbus.Event) error {
	changed, ok := event.(events.EquipmentChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}

	keys := []string{AvailabilityCacheKey(changed.EquipmentID)}
	for _, showID := range changed.ShowIDs {
		keys = append(keys, showCacheKey(showID))
	}
	if l.cacheRepo != nil {
		if err := l.cacheRepo.Del(ctx, keys...); err != nil {
			l.logger.Warn("не удалось сбросить кеш доступности",
				zap.Uint64("equipment_id", changed.EquipmentID),
				zap.Error(err),
			)
		}
	}

	if l.hub != nil {
		l.hub.NotifyEquipment(changed.EquipmentID, websocket.EquipmentChangedPayload{
			EquipmentID: changed.EquipmentID,
			ShowIDs:     changed.ShowIDs,
			OperationID: changed.OperationID,
		})
	}

	if l.publisher != nil {
		if err := l.publisher.PublishAllocationCommitted(ctx, queue.AllocationCommittedMessage{
			EquipmentID: changed.EquipmentID,
			ShowIDs:     changed.ShowIDs,
			OperationID: changed.OperationID,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			l.logger.Warn("не удалось опубликовать сообщение в очередь", zap.Error(err))
		}
	}

	return nil
}
