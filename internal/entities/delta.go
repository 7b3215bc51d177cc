package entities

import (
	"github.com/google/uuid"
)

// LedgerDelta — набор одновременных изменений корзин одного оборудования.
// Дельта либо фиксируется целиком, либо не фиксируется вовсе: леджер
// валидирует инварианты по ПОСЛЕ-состоянию до записи чего-либо.
type LedgerDelta struct {
	// OperationID сквозной: попадает в логи, события и сообщения очереди.
	OperationID uuid.UUID

	// Equipment != nil — изменить поля самой единицы учёта (установка,
	// общее количество).
	Equipment *EquipmentUnit

	// Брони под шоу: вставка (ID == 0) или обновление по ID, плюс удаления.
	UpsertShows   []ShowAllocation
	DeleteShowIDs []uint64

	// ReplaceLocations != nil — полная замена набора размещений по локациям.
	ReplaceLocations *[]LocationAllocation
}

// Apply строит ПОСЛЕ-состояние: применяет дельту к копии раскладки.
// Исходная раскладка не изменяется. Вставляемым броням временно
// присваивается ID 0 — настоящие id раздаёт хранилище при коммите.
func (d *LedgerDelta) Apply(b *Breakdown) *Breakdown {
	next := b.Clone()

	if d.Equipment != nil {
		next.Equipment = *d.Equipment
	}

	for _, up := range d.UpsertShows {
		replaced := false
		if up.ID != 0 {
			for i := range next.Shows {
				if next.Shows[i].ID == up.ID {
					next.Shows[i] = up
					replaced = true
					break
				}
			}
		}
		if !replaced {
			next.Shows = append(next.Shows, up)
		}
	}

	for _, delID := range d.DeleteShowIDs {
		for i := range next.Shows {
			if next.Shows[i].ID == delID {
				next.Shows = append(next.Shows[:i], next.Shows[i+1:]...)
				break
			}
		}
	}

	if d.ReplaceLocations != nil {
		replacement := make([]LocationAllocation, len(*d.ReplaceLocations))
		copy(replacement, *d.ReplaceLocations)
		next.Locations = replacement
	}

	return next
}

// TouchedShowIDs — id шоу, чьи выборки затрагивает дельта; по ним строятся
// узкие уведомления об инвалидации.
func (d *LedgerDelta) TouchedShowIDs(prev *Breakdown) []uint64 {
	seen := make(map[uint64]bool)
	var ids []uint64
	add := func(id uint64) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, up := range d.UpsertShows {
		add(up.ShowID)
	}
	for _, delID := range d.DeleteShowIDs {
		if alloc := prev.FindShowAllocation(delID); alloc != nil {
			add(alloc.ShowID)
		}
	}
	return ids
}
