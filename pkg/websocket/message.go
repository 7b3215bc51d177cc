package websocket

import "time"

// Envelope — "конверт" для исходящих сообщений; тип подсказывает фронтенду,
// что именно обновлять.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// EquipmentChangedPayload — узкое уведомление об изменении раскладки одного
// оборудования. show_ids позволяют шоу-ориентированным экранам понять, что
// их выборка тоже устарела.
type EquipmentChangedPayload struct {
	EquipmentID uint64   `json:"equipment_id"`
	ShowIDs     []uint64 `json:"show_ids,omitempty"`
	OperationID string   `json:"operation_id"`
}
