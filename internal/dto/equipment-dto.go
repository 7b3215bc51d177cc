package dto

// EquipmentDTO — строка справочника оборудования для чтения.
type EquipmentDTO struct {
	ID                   uint64 `json:"id"`
	Name                 string `json:"name"`
	TotalQuantity        int    `json:"total_quantity"`
	InstallationType     string `json:"installation_type"`
	InstallationQuantity int    `json:"installation_quantity"`
	CreatedAt            string `json:"created_at,omitempty"`
	UpdatedAt            string `json:"updated_at,omitempty"`
}

// UpdateTotalQuantityDTO — административная правка общего количества.
// Правка ниже суммы уже закоммиченных корзин отклоняется.
type UpdateTotalQuantityDTO struct {
	TotalQuantity int `json:"total_quantity" validate:"required,gte=1"`
}
