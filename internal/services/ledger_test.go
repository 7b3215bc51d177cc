package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocation-system/internal/dto"
	"allocation-system/internal/entities"
	"allocation-system/pkg/constants"
	apperrors "allocation-system/pkg/errors"
)

func TestMutateRejectsInvariantViolation(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// Дельта в обход сервисных проверок: 12 ед. при общем количестве 10.
	_, err := engine.ledger.Mutate(ctx, 1, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		return &entities.LedgerDelta{
			UpsertShows: []entities.ShowAllocation{
				{EquipmentID: 1, ShowID: 1, QuantityNeeded: 12, QuantityAllocated: 12, Status: constants.ShowStatusRequested},
			},
		}, nil
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvariant))

	// Ничего не записано.
	breakdown, err := engine.ledger.CurrentBreakdown(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, breakdown.Shows)
	assert.Equal(t, 10, breakdown.DefaultStorage())
}

func TestMutateNilDeltaIsNoOp(t *testing.T) {
	engine := newTestEngine(t)

	breakdown, err := engine.ledger.Mutate(context.Background(), 1, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, breakdown.DefaultStorage())
}

func TestMutateUnknownEquipment(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.ledger.Mutate(context.Background(), 42, func(fresh *entities.Breakdown) (*entities.LedgerDelta, error) {
		t.Fatal("мутация не должна вызываться для несуществующего оборудования")
		return nil, nil
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

// Свойство сохранения: какая бы последовательность принятых операций ни
// случилась, сумма по корзинам никогда не превышает общее количество, а
// производный остаток склада не уходит в минус.
func TestConservationUnderRandomOperations(t *testing.T) {
	engine := newTestEngine(t)
	showSvc := engine.showAllocations(t)
	locSvc := engine.locationAllocations(t)
	instSvc := engine.installations(t)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(20260830))
	statuses := constants.ShowStatuses

	for step := 0; step < 400; step++ {
		switch rng.Intn(6) {
		case 0:
			showSvc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{
				ShowID:         uint64(rng.Intn(3) + 1),
				EquipmentID:    1,
				QuantityNeeded: rng.Intn(12) + 1,
			})
		case 1:
			if id := anyAllocationID(t, engine); id != 0 {
				status := statuses[rng.Intn(len(statuses))]
				qty := rng.Intn(12)
				showSvc.UpdateShowAllocation(ctx, id, dto.UpdateShowAllocationDTO{
					QuantityAllocated: null.IntFrom(qty),
					Status:            null.StringFrom(status),
				})
			}
		case 2:
			if id := anyAllocationID(t, engine); id != 0 {
				showSvc.RemoveShowAllocation(ctx, id)
			}
		case 3:
			rows := []dto.LocationAllocationRowDTO{}
			for i := 0; i < rng.Intn(3); i++ {
				rows = append(rows, dto.LocationAllocationRowDTO{
					LocationName: string(rune('A' + i)),
					Quantity:     rng.Intn(6) + 1,
				})
			}
			locSvc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{Allocations: rows})
		case 4:
			instSvc.SetInstallation(ctx, 1, dto.SetInstallationDTO{
				InstallationType: constants.InstallationFixed,
				LocationName:     "сцена",
				Quantity:         rng.Intn(8),
			})
		case 5:
			instSvc.ReturnFromInstallation(ctx, 1, dto.ReturnInstallationDTO{Quantity: rng.Intn(4) + 1})
		}

		// После каждого шага — принятого или отвергнутого — раскладка
		// обязана оставаться согласованной.
		breakdown, err := engine.ledger.CurrentBreakdown(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, breakdown.Validate(), "шаг %d нарушил инварианты", step)
		require.GreaterOrEqual(t, breakdown.DefaultStorage(), 0, "шаг %d увёл остаток в минус", step)
	}
}

func anyAllocationID(t *testing.T, engine *testEngine) uint64 {
	t.Helper()
	breakdown, err := engine.ledger.CurrentBreakdown(context.Background(), 1)
	require.NoError(t, err)
	if len(breakdown.Shows) == 0 {
		return 0
	}
	return breakdown.Shows[0].ID
}
