package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocation-system/internal/dto"
	apperrors "allocation-system/pkg/errors"
)

func namedRow(locationID uint64, qty int) dto.LocationAllocationRowDTO {
	return dto.LocationAllocationRowDTO{LocationID: &locationID, Quantity: qty}
}

func customRow(name string, qty int) dto.LocationAllocationRowDTO {
	return dto.LocationAllocationRowDTO{LocationName: name, Quantity: qty}
}

func TestReplaceAllAllocatesToLocations(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)
	ctx := context.Background()

	summary, err := svc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{
			namedRow(5, 3),
			customRow("репетиционный зал", 2),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.AvailableQuantity)
	assert.Equal(t, 5, summary.TotalAllocated)

	breakdown, _ := engine.ledger.CurrentBreakdown(ctx, 1)
	require.Len(t, breakdown.Locations, 2)
	assert.Equal(t, "allocated", breakdown.Locations[0].Status, "статус выводится при записи")
}

func TestReplaceAllDuplicateLocationRejectedWholesale(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)
	ctx := context.Background()

	_, err := svc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{
			customRow("A", 6),
			customRow("a", 2), // та же локация с точностью до регистра
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// Никакой частичной записи: всё осталось на складе.
	breakdown, _ := engine.ledger.CurrentBreakdown(ctx, 1)
	assert.Empty(t, breakdown.Locations)
	assert.Equal(t, 10, breakdown.DefaultStorage())
}

func TestReplaceAllOverBoundRejected(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)
	ctx := context.Background()

	_, err := svc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{namedRow(5, 11)},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	httpErr := err.(*apperrors.HttpError)
	assert.Equal(t, 10, httpErr.Details["bound"])
}

func TestReplaceAllRedistributesExistingRows(t *testing.T) {
	engine := newTestEngine(t)
	locSvc := engine.locationAllocations(t)
	showSvc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := showSvc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)

	_, err = locSvc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{namedRow(5, 6)},
	})
	require.NoError(t, err)

	// Существующие 6 ед. по локациям перераспределяются, а не занимаются
	// заново: план на те же 6 проходит, на 7 — нет.
	summary, err := locSvc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{namedRow(5, 2), namedRow(6, 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.AvailableQuantity)

	_, err = locSvc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{namedRow(5, 7)},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestReplaceAllEmptyPlanReturnsEverything(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)
	ctx := context.Background()

	_, err := svc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{namedRow(5, 7)},
	})
	require.NoError(t, err)

	summary, err := svc.ReplaceAll(ctx, 1, dto.ReplaceLocationAllocationsDTO{})
	require.NoError(t, err)
	assert.Equal(t, 10, summary.AvailableQuantity)
	assert.Equal(t, 10, summary.DefaultStorage)
}

func TestReplaceAllUnknownNamedLocation(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)

	_, err := svc.ReplaceAll(context.Background(), 1, dto.ReplaceLocationAllocationsDTO{
		Allocations: []dto.LocationAllocationRowDTO{namedRow(99, 1)},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestBuildPlanSplitEqual(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)
	ctx := context.Background()

	// 10 ед. на три локации: 4, 3, 3 — остаток раздаётся первым строкам.
	plan, err := svc.BuildPlan(ctx, 1, dto.PlanRequestDTO{
		Mode: "split-equal",
		Locations: []dto.LocationAllocationRowDTO{
			customRow("A", 1), customRow("B", 1), customRow("C", 1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, plan.TotalForAllocation)
	require.Len(t, plan.Rows, 3)
	assert.Equal(t, 4, plan.Rows[0].Quantity)
	assert.Equal(t, 3, plan.Rows[1].Quantity)
	assert.Equal(t, 3, plan.Rows[2].Quantity)
}

func TestBuildPlanSplitEqualDropsZeroRows(t *testing.T) {
	engine := newTestEngine(t)
	locSvc := engine.locationAllocations(t)
	showSvc := engine.showAllocations(t)
	ctx := context.Background()

	// Оставляем на распределение всего 2 ед.
	_, err := showSvc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 8})
	require.NoError(t, err)

	plan, err := locSvc.BuildPlan(ctx, 1, dto.PlanRequestDTO{
		Mode: "split-equal",
		Locations: []dto.LocationAllocationRowDTO{
			customRow("A", 1), customRow("B", 1), customRow("C", 1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, plan.TotalForAllocation)
	require.Len(t, plan.Rows, 2, "строки с нулём выпадают из плана")
	assert.Equal(t, 1, plan.Rows[0].Quantity)
	assert.Equal(t, 1, plan.Rows[1].Quantity)
}

func TestBuildPlanMoveAll(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.locationAllocations(t)

	plan, err := svc.BuildPlan(context.Background(), 1, dto.PlanRequestDTO{
		Mode: "move-all",
		Locations: []dto.LocationAllocationRowDTO{
			customRow("A", 1), customRow("B", 1),
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Rows, 1)
	assert.Equal(t, 10, plan.Rows[0].Quantity)
	assert.Equal(t, "A", plan.Rows[0].LocationName)
}
