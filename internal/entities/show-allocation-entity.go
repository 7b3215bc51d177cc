package entities

import (
	"allocation-system/pkg/constants"
	"allocation-system/pkg/types"
)

// ShowAllocation — бронь оборудования под конкретное шоу. На пару
// (equipment_id, show_id) существует не больше одной логической брони:
// повторный запрос на выделение — это обновление, а не новая строка.
type ShowAllocation struct {
	ID                uint64 `json:"id"`
	EquipmentID       uint64 `json:"equipment_id"`
	ShowID            uint64 `json:"show_id"`
	QuantityNeeded    int    `json:"quantity_needed"`
	QuantityAllocated int    `json:"quantity_allocated"`
	Status            string `json:"status"`
	Notes             string `json:"notes,omitempty"`

	types.BaseEntity

	// Подгруженные данные шоу (не колонки таблицы broni).
	Show *Show `json:"show,omitempty" db:"-"`
}

// IsReturned — из этого состояния бронь не оживает, только пересоздаётся.
func (a *ShowAllocation) IsReturned() bool {
	return a.Status == constants.ShowStatusReturned
}

// CommittedQuantity — сколько единиц бронь реально удерживает вне склада.
func (a *ShowAllocation) CommittedQuantity() int {
	if a.IsReturned() {
		return 0
	}
	return a.QuantityAllocated
}
