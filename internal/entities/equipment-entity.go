package entities

import (
	"time"

	"allocation-system/pkg/types"
)

// EquipmentUnit — единица учёта: одна позиция оборудования с фиксированным
// общим количеством, чьи единицы одновременно расходятся по складу,
// локациям, броням под шоу и установке.
type EquipmentUnit struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	TotalQuantity int    `json:"total_quantity"`

	// Поля установки осмысленны только при типе, отличном от portable.
	InstallationType     string      `json:"installation_type"`
	InstallationQuantity int         `json:"installation_quantity"`
	InstallationLocation LocationRef `json:"installation_location"`
	InstallationDate     *time.Time  `json:"installation_date,omitempty"`
	InstallationNotes    string      `json:"installation_notes,omitempty"`

	types.BaseEntity
}
