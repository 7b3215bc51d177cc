package entities

import (
	"time"

	"allocation-system/pkg/types"
)

// Show — запись справочника шоу (внешний коллаборатор движка).
type Show struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	types.BaseEntity
}

// Overlaps сообщает, пересекаются ли даты двух шоу (границы включительно).
// Шоу без дат считается пересекающимся с любым — консервативный выбор:
// лучше лишний конфликт, чем перерасход единиц.
func (s *Show) Overlaps(other *Show) bool {
	if s == nil || other == nil {
		return true
	}
	if s.StartDate == nil || s.EndDate == nil || other.StartDate == nil || other.EndDate == nil {
		return true
	}
	return !s.EndDate.Before(*other.StartDate) && !other.EndDate.Before(*s.StartDate)
}
