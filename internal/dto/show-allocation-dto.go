package dto

import (
	"github.com/aarondl/null/v8"
)

// CreateShowAllocationDTO — выделение оборудования под шоу. Повторный
// запрос по той же паре (show_id, equipment_id) обновляет существующую
// бронь, а не создаёт новую.
type CreateShowAllocationDTO struct {
	ShowID         uint64 `json:"show_id" validate:"required,gt=0"`
	EquipmentID    uint64 `json:"equipment_id" validate:"required,gt=0"`
	QuantityNeeded int    `json:"quantity_needed" validate:"required,gte=1"`
	Notes          string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateShowAllocationDTO — частичное обновление брони. null-поля
// различают "не прислано" и "прислано нулевое значение".
type UpdateShowAllocationDTO struct {
	QuantityNeeded    null.Int    `json:"quantity_needed" swaggertype:"integer"`
	QuantityAllocated null.Int    `json:"quantity_allocated" swaggertype:"integer"`
	Status            null.String `json:"status" swaggertype:"string"`
	Notes             null.String `json:"notes" swaggertype:"string"`
}

// ValidateStatusDTO — предварительная проверка перехода статуса без коммита.
type ValidateStatusDTO struct {
	Status   string `json:"status" validate:"required,allocation_status"`
	Quantity *int   `json:"quantity" validate:"omitempty,gte=0"`
}

// ConflictDTO описывает конкретную бронь, которая блокирует переход.
type ConflictDTO struct {
	AllocationID uint64 `json:"allocation_id"`
	ShowID       uint64 `json:"show_id"`
	ShowName     string `json:"show_name,omitempty"`
	Status       string `json:"status"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason"`
}

// TransitionResultDTO — результат валидации перехода: конфликты блокируют,
// предупреждения нет.
type TransitionResultDTO struct {
	Valid     bool          `json:"valid"`
	Conflicts []ConflictDTO `json:"conflicts,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
	// Недостача при переходе в allocated: max(0, needed - allocated).
	Missing int `json:"missing,omitempty"`
}
