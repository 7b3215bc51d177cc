package services

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"allocation-system/internal/entities"
	"allocation-system/internal/repositories"
	"allocation-system/pkg/locker"
)

// Тестовая обвязка движка: хранилище в памяти вместо Postgres, без шины и
// без кеша. Семантика ApplyDelta у MemoryStore совпадает с SQL-реализацией.
type testEngine struct {
	store  *repositories.MemoryStore
	ledger LedgerServiceInterface
}

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("некорректная дата %q: %v", s, err)
	}
	return &parsed
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	store := repositories.NewMemoryStore()
	store.AddEquipment(entities.EquipmentUnit{ID: 1, Name: "Прожектор LED", TotalQuantity: 10})
	store.AddLocation(entities.Location{ID: 5, Name: "Склад А"})
	store.AddLocation(entities.Location{ID: 6, Name: "Склад Б"})
	store.AddShow(entities.Show{ID: 1, Name: "Весенний показ", StartDate: day(t, "2026-03-01"), EndDate: day(t, "2026-03-10")})
	store.AddShow(entities.Show{ID: 2, Name: "Летний фестиваль", StartDate: day(t, "2026-06-01"), EndDate: day(t, "2026-06-15")})
	store.AddShow(entities.Show{ID: 3, Name: "Шоу без дат"})

	locks := locker.New(time.Second)
	ledger := NewLedgerService(store, locks, nil, zap.NewNop())

	return &testEngine{store: store, ledger: ledger}
}

func (e *testEngine) showAllocations(t *testing.T) ShowAllocationServiceInterface {
	t.Helper()
	return NewShowAllocationService(e.ledger, e.store, e.store, 2, zap.NewNop())
}

func (e *testEngine) locationAllocations(t *testing.T) LocationAllocationServiceInterface {
	t.Helper()
	return NewLocationAllocationService(e.ledger, e.store, 2, zap.NewNop())
}

func (e *testEngine) installations(t *testing.T) InstallationServiceInterface {
	t.Helper()
	return NewInstallationService(e.ledger, e.store, 2, zap.NewNop())
}
