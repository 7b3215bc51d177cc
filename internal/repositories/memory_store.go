package repositories

import (
	"context"
	"sync"

	"allocation-system/internal/entities"
	apperrors "allocation-system/pkg/errors"
)

// MemoryStore — хранилище раскладок в памяти: используется тестами движка
// и встраиваемыми сценариями без Postgres. Семантика ApplyDelta совпадает
// с SQL-реализацией: дельта применяется целиком под общим замком.
type MemoryStore struct {
	mu sync.RWMutex

	equipments map[uint64]entities.EquipmentUnit
	locations  map[uint64]entities.Location
	shows      map[uint64]entities.Show

	locationAllocs map[uint64][]entities.LocationAllocation
	showAllocs     map[uint64][]entities.ShowAllocation

	nextLocationAllocID uint64
	nextShowAllocID     uint64
}

// Проверки соответствия интерфейсам.
var (
	_ LedgerRepositoryInterface   = (*MemoryStore)(nil)
	_ ShowRepositoryInterface     = (*MemoryStore)(nil)
	_ LocationRepositoryInterface = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		equipments:     make(map[uint64]entities.EquipmentUnit),
		locations:      make(map[uint64]entities.Location),
		shows:          make(map[uint64]entities.Show),
		locationAllocs: make(map[uint64][]entities.LocationAllocation),
		showAllocs:     make(map[uint64][]entities.ShowAllocation),
	}
}

// --- Наполнение справочников ---

func (s *MemoryStore) AddEquipment(eq entities.EquipmentUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eq.InstallationType == "" {
		eq.InstallationType = "portable"
	}
	s.equipments[eq.ID] = eq
}

func (s *MemoryStore) AddShow(show entities.Show) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shows[show.ID] = show
}

func (s *MemoryStore) AddLocation(loc entities.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc
}

// --- LedgerRepositoryInterface ---

func (s *MemoryStore) GetBreakdown(ctx context.Context, equipmentID uint64) (*entities.Breakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.breakdownLocked(equipmentID)
}

func (s *MemoryStore) breakdownLocked(equipmentID uint64) (*entities.Breakdown, error) {
	eq, ok := s.equipments[equipmentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	breakdown := &entities.Breakdown{Equipment: eq}
	breakdown.Locations = append(breakdown.Locations, s.locationAllocs[equipmentID]...)

	for _, alloc := range s.showAllocs[equipmentID] {
		if show, ok := s.shows[alloc.ShowID]; ok {
			showCopy := show
			alloc.Show = &showCopy
		}
		breakdown.Shows = append(breakdown.Shows, alloc)
	}
	return breakdown, nil
}

func (s *MemoryStore) ApplyDelta(ctx context.Context, equipmentID uint64, delta *entities.LedgerDelta) (*entities.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.breakdownLocked(equipmentID)
	if err != nil {
		return nil, err
	}

	// Обновления и удаления должны ссылаться на существующие брони.
	for _, up := range delta.UpsertShows {
		if up.ID != 0 && current.FindShowAllocation(up.ID) == nil {
			return nil, apperrors.ErrNotFound
		}
	}
	for _, delID := range delta.DeleteShowIDs {
		if current.FindShowAllocation(delID) == nil {
			return nil, apperrors.ErrNotFound
		}
	}

	next := delta.Apply(current)

	for i := range next.Shows {
		if next.Shows[i].ID == 0 {
			s.nextShowAllocID++
			next.Shows[i].ID = s.nextShowAllocID
		}
	}
	for i := range next.Locations {
		if next.Locations[i].ID == 0 {
			s.nextLocationAllocID++
			next.Locations[i].ID = s.nextLocationAllocID
		}
		next.Locations[i].EquipmentID = equipmentID
	}

	s.equipments[equipmentID] = next.Equipment

	locs := make([]entities.LocationAllocation, len(next.Locations))
	copy(locs, next.Locations)
	s.locationAllocs[equipmentID] = locs

	showAllocs := make([]entities.ShowAllocation, len(next.Shows))
	for i, alloc := range next.Shows {
		alloc.Show = nil
		showAllocs[i] = alloc
	}
	s.showAllocs[equipmentID] = showAllocs

	return s.breakdownLocked(equipmentID)
}

func (s *MemoryStore) FindShowAllocation(ctx context.Context, allocationID uint64) (*entities.ShowAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, allocs := range s.showAllocs {
		for _, alloc := range allocs {
			if alloc.ID == allocationID {
				found := alloc
				return &found, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- Справочники ---

func (s *MemoryStore) FindShow(ctx context.Context, id uint64) (*entities.Show, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	show, ok := s.shows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &show, nil
}

func (s *MemoryStore) FindLocation(ctx context.Context, id uint64) (*entities.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &loc, nil
}
