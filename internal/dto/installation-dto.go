package dto

import "time"

// SetInstallationDTO — установка или изменение постоянного/полупостоянного
// размещения. Для типа != portable обязательна ссылка на место.
type SetInstallationDTO struct {
	InstallationType string     `json:"installation_type" validate:"required,oneof=portable semi-permanent fixed"`
	LocationID       *uint64    `json:"location_id"`
	LocationName     string     `json:"location_name" validate:"omitempty,max=255"`
	Quantity         int        `json:"quantity" validate:"gte=0"`
	Notes            string     `json:"notes" validate:"omitempty,max=1000"`
	Date             *time.Time `json:"date"`
}

// ReturnInstallationDTO — возврат части единиц с установки на склад.
type ReturnInstallationDTO struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
