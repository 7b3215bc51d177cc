package entities

import (
	"fmt"
	"strings"
)

// LocationRef — помеченная ссылка на место хранения: либо локация из
// справочника (Named), либо произвольный текст (Custom). Живым всегда
// остаётся ровно один вариант — конструкторы гасят второй, поэтому
// наблюдавшаяся в старых системах пара независимых полей с ручной
// зачисткой здесь невозможна.
type LocationRef struct {
	LocationID   *uint64 `json:"location_id,omitempty" db:"location_id"`
	LocationName *string `json:"location_name,omitempty" db:"location_name"`
}

func NamedLocation(id uint64) LocationRef {
	return LocationRef{LocationID: &id}
}

func CustomLocation(text string) LocationRef {
	trimmed := strings.TrimSpace(text)
	return LocationRef{LocationName: &trimmed}
}

func (r LocationRef) IsNamed() bool { return r.LocationID != nil }

func (r LocationRef) IsCustom() bool {
	return r.LocationID == nil && r.LocationName != nil && strings.TrimSpace(*r.LocationName) != ""
}

func (r LocationRef) IsZero() bool { return !r.IsNamed() && !r.IsCustom() }

// Key возвращает нормализованный ключ для сравнения ссылок: по нему
// ловятся дубликаты локаций внутри одного оборудования.
func (r LocationRef) Key() string {
	if r.IsNamed() {
		return fmt.Sprintf("named:%d", *r.LocationID)
	}
	if r.IsCustom() {
		return "custom:" + strings.ToLower(strings.TrimSpace(*r.LocationName))
	}
	return ""
}

func (r LocationRef) Equal(other LocationRef) bool {
	return !r.IsZero() && r.Key() == other.Key()
}

func (r LocationRef) String() string {
	if r.IsNamed() {
		return fmt.Sprintf("локация #%d", *r.LocationID)
	}
	if r.IsCustom() {
		return *r.LocationName
	}
	return "(не задано)"
}
