package entities

import (
	"fmt"

	"allocation-system/pkg/constants"
	apperrors "allocation-system/pkg/errors"
)

// Breakdown — полная раскладка единиц одного оборудования по корзинам.
// Остаток на складе нигде не хранится: он всегда вычисляется как
// Total - (локации + активные брони + установка), и обязан сходиться
// в ноль или больше после каждой зафиксированной мутации.
type Breakdown struct {
	Equipment EquipmentUnit        `json:"equipment"`
	Locations []LocationAllocation `json:"locations"`
	Shows     []ShowAllocation     `json:"shows"`
}

func (b *Breakdown) LocationsSum() int {
	sum := 0
	for _, loc := range b.Locations {
		sum += loc.Quantity
	}
	return sum
}

// ActiveShowsSum — сумма выделенных единиц по всем невозвращённым броням.
func (b *Breakdown) ActiveShowsSum() int {
	sum := 0
	for i := range b.Shows {
		sum += b.Shows[i].CommittedQuantity()
	}
	return sum
}

// InstallationQuantity учитывается только для не-портативного оборудования.
func (b *Breakdown) InstallationQuantity() int {
	if b.Equipment.InstallationType == constants.InstallationPortable {
		return 0
	}
	return b.Equipment.InstallationQuantity
}

// DefaultStorage — производный остаток склада (никогда не хранится).
func (b *Breakdown) DefaultStorage() int {
	return b.Equipment.TotalQuantity - b.LocationsSum() - b.ActiveShowsSum() - b.InstallationQuantity()
}

// Validate проверяет инварианты раскладки. Вызывается леджером на
// ПОСЛЕ-состоянии каждой мутации до коммита; нарушение означает, что
// мутация не фиксируется вовсе.
func (b *Breakdown) Validate() error {
	// Сохранение: производный остаток не может уйти в минус.
	if storage := b.DefaultStorage(); storage < 0 {
		return apperrors.NewInvariantViolation(
			"сумма по корзинам превышает общее количество оборудования",
			map[string]interface{}{
				"equipment_id":    b.Equipment.ID,
				"total_quantity":  b.Equipment.TotalQuantity,
				"default_storage": storage,
			},
		)
	}

	if b.Equipment.TotalQuantity < 1 {
		return apperrors.NewInvariantViolation(
			"общее количество оборудования должно быть не меньше 1",
			map[string]interface{}{"equipment_id": b.Equipment.ID, "total_quantity": b.Equipment.TotalQuantity},
		)
	}

	if b.Equipment.InstallationQuantity < 0 {
		return apperrors.NewInvariantViolation(
			"количество на установке не может быть отрицательным",
			map[string]interface{}{"equipment_id": b.Equipment.ID},
		)
	}

	// Дубликаты локаций.
	seen := make(map[string]string, len(b.Locations))
	for _, loc := range b.Locations {
		if loc.Quantity < 1 {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("размещение в %q имеет недопустимое количество %d", loc.Location.String(), loc.Quantity),
				map[string]interface{}{"equipment_id": b.Equipment.ID, "location": loc.Location.String()},
			)
		}
		if loc.Location.IsZero() {
			return apperrors.NewInvariantViolation(
				"размещение без ссылки на локацию",
				map[string]interface{}{"equipment_id": b.Equipment.ID},
			)
		}
		key := loc.Location.Key()
		if prev, ok := seen[key]; ok {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("локация %q встречается дважды", prev),
				map[string]interface{}{"equipment_id": b.Equipment.ID, "location": prev},
			)
		}
		seen[key] = loc.Location.String()
	}

	// Границы броней.
	for i := range b.Shows {
		alloc := &b.Shows[i]
		if alloc.QuantityNeeded < 1 || alloc.QuantityAllocated < 0 {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("бронь шоу %d имеет недопустимые количества", alloc.ShowID),
				map[string]interface{}{"equipment_id": b.Equipment.ID, "show_id": alloc.ShowID},
			)
		}
		if alloc.QuantityAllocated > alloc.QuantityNeeded {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("по брони шоу %d выделено больше, чем запрошено", alloc.ShowID),
				map[string]interface{}{
					"equipment_id":       b.Equipment.ID,
					"show_id":            alloc.ShowID,
					"quantity_needed":    alloc.QuantityNeeded,
					"quantity_allocated": alloc.QuantityAllocated,
				},
			)
		}
		if !constants.IsKnownShowStatus(alloc.Status) {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("неизвестный статус брони %q", alloc.Status),
				map[string]interface{}{"equipment_id": b.Equipment.ID, "show_id": alloc.ShowID},
			)
		}
	}

	// Установка: не-портативный тип обязан иметь ссылку на место.
	if b.Equipment.InstallationType != constants.InstallationPortable {
		if !constants.IsKnownInstallationType(b.Equipment.InstallationType) {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("неизвестный тип установки %q", b.Equipment.InstallationType),
				map[string]interface{}{"equipment_id": b.Equipment.ID},
			)
		}
		if b.Equipment.InstallationQuantity > 0 && b.Equipment.InstallationLocation.IsZero() {
			return apperrors.NewInvariantViolation(
				"установка без указания места",
				map[string]interface{}{"equipment_id": b.Equipment.ID},
			)
		}
	}

	return nil
}

// Clone — глубокая копия для применения дельты: валидация всегда идёт по
// копии, чтобы отклонённая мутация не оставила следов.
func (b *Breakdown) Clone() *Breakdown {
	clone := &Breakdown{
		Equipment: b.Equipment,
		Locations: make([]LocationAllocation, len(b.Locations)),
		Shows:     make([]ShowAllocation, len(b.Shows)),
	}
	copy(clone.Locations, b.Locations)
	copy(clone.Shows, b.Shows)
	return clone
}

// FindShowAllocation ищет бронь по id; nil, если её нет.
func (b *Breakdown) FindShowAllocation(allocationID uint64) *ShowAllocation {
	for i := range b.Shows {
		if b.Shows[i].ID == allocationID {
			return &b.Shows[i]
		}
	}
	return nil
}

// FindShowAllocationByShow ищет бронь по id шоу.
func (b *Breakdown) FindShowAllocationByShow(showID uint64) *ShowAllocation {
	for i := range b.Shows {
		if b.Shows[i].ShowID == showID {
			return &b.Shows[i]
		}
	}
	return nil
}
