package events

// EquipmentChangedEvent - событие после зафиксированной мутации леджера.
// Несёт ровно те ключи, чьи выборки устарели: одно оборудование и его
// затронутые шоу. Слушатели обновляют только их, никаких массовых
// инвалидаций "на всякий случай".
type EquipmentChangedEvent struct {
	EquipmentID uint64
	ShowIDs     []uint64
	OperationID string
}

// Name - реализуем интерфейс eventbus.Event
func (e EquipmentChangedEvent) Name() string {
	return "equipment.changed"
}
