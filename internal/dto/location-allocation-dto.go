package dto

// LocationAllocationRowDTO — одна строка плана размещения. Заполняется либо
// location_id (локация из справочника), либо location_name (произвольный
// текст) — правило location_ref следит, что живым остаётся ровно один
// вариант.
type LocationAllocationRowDTO struct {
	LocationID   *uint64 `json:"location_id" validate:"location_ref"`
	LocationName string  `json:"location_name" validate:"omitempty,max=255"`
	Quantity     int     `json:"quantity" validate:"required,gte=1"`
	Status       string  `json:"status" validate:"omitempty,oneof=allocated in-use maintenance reserved"`
	Notes        string  `json:"notes" validate:"omitempty,max=1000"`
}

// ReplaceLocationAllocationsDTO — атомарная замена всего набора размещений.
// Пустой список допустим и означает "все единицы возвращаются на склад".
type ReplaceLocationAllocationsDTO struct {
	Allocations []LocationAllocationRowDTO `json:"allocations" validate:"dive"`
}

// PlanRequestDTO — запрос на расчёт плана перераспределения без коммита.
// Mode: split-equal | move-all.
type PlanRequestDTO struct {
	Mode      string                     `json:"mode" validate:"required,oneof=split-equal move-all"`
	Locations []LocationAllocationRowDTO `json:"locations" validate:"required,min=1,dive"`
}

// PlanResponseDTO — рассчитанный план и объём, который он распределяет.
type PlanResponseDTO struct {
	TotalForAllocation int                        `json:"total_for_allocation"`
	Rows               []LocationAllocationRowDTO `json:"rows"`
}
