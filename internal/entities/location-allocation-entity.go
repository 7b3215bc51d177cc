package entities

import (
	"allocation-system/pkg/types"
)

// LocationAllocation — размещение части единиц оборудования в именованной
// или произвольной локации. На одно оборудование не бывает двух строк с
// одинаковой ссылкой на локацию.
type LocationAllocation struct {
	ID          uint64      `json:"id"`
	EquipmentID uint64      `json:"equipment_id"`
	Location    LocationRef `json:"location"`
	Quantity    int         `json:"quantity"`
	Status      string      `json:"status"`
	Notes       string      `json:"notes,omitempty"`

	types.BaseEntity
}
