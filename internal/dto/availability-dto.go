package dto

// AvailabilityDTO — сводка доступности, возвращаемая после каждой записи
// и по прямому запросу чтения.
type AvailabilityDTO struct {
	EquipmentID          uint64 `json:"equipment_id"`
	TotalQuantity        int    `json:"total_quantity"`
	AvailableQuantity    int    `json:"available_quantity"`
	TotalAllocated       int    `json:"total_allocated"`
	ShowAllocated        int    `json:"show_allocated"`
	InstallationQuantity int    `json:"installation_allocated"`
	DefaultStorage       int    `json:"default_storage"`

	// Для чтения без правимой брони совпадает с available_quantity;
	// собственные единицы редактируемой брони сюда добавляет вызывающий.
	EffectivelyAvailable int `json:"effectively_available"`

	// Разрезы по статусам: сколько единиц в каком статусе.
	ShowStatusBreakdown     map[string]int `json:"show_status_breakdown"`
	LocationStatusBreakdown map[string]int `json:"inventory_status_breakdown"`

	Warnings []string `json:"warnings,omitempty"`
}
