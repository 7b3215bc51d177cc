package entities

import (
	"allocation-system/pkg/types"
)

// Location — запись справочника локаций (внешний коллаборатор движка).
type Location struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	types.BaseEntity
}
