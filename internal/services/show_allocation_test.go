package services

import (
	"context"
	"sync"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocation-system/internal/dto"
	"allocation-system/internal/entities"
	"allocation-system/pkg/constants"
	apperrors "allocation-system/pkg/errors"
)

func TestAllocateToShowHoldsUnits(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	summary, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{
		ShowID: 1, EquipmentID: 1, QuantityNeeded: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, summary.AvailableQuantity)
	assert.Equal(t, 4, summary.ShowAllocated)
	assert.Equal(t, constants.ShowStatusRequested, statusOfShow(t, engine, 1))
}

func TestAllocateToShowUpdatesExistingPair(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)

	// Повторный запрос по той же паре — обновление, а не вторая бронь.
	summary, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 7})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.AvailableQuantity)

	breakdown, err := engine.ledger.CurrentBreakdown(ctx, 1)
	require.NoError(t, err)
	require.Len(t, breakdown.Shows, 1)
	assert.Equal(t, 7, breakdown.Shows[0].QuantityAllocated)
}

func TestAllocateToShowOverAllocationRejected(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 8})
	require.NoError(t, err)

	_, err = svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 2, EquipmentID: 1, QuantityNeeded: 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	httpErr := err.(*apperrors.HttpError)
	assert.Equal(t, 2, httpErr.Details["bound"], "в details уходит нарушенная граница")

	// Леджер не изменился.
	breakdown, err := engine.ledger.CurrentBreakdown(ctx, 1)
	require.NoError(t, err)
	require.Len(t, breakdown.Shows, 1)
	assert.Equal(t, 2, breakdown.DefaultStorage())
}

func TestAllocateToShowUnknownShow(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)

	_, err := svc.AllocateToShow(context.Background(), dto.CreateShowAllocationDTO{ShowID: 99, EquipmentID: 1, QuantityNeeded: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestConcurrentAllocationAtMostOneWinner(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	// Две конкурентные заявки по 6 ед. при общем количестве 10: вместе они
	// не помещаются, выиграть может ровно одна.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{
				ShowID: uint64(i + 1), EquipmentID: 1, QuantityNeeded: 6,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes)

	breakdown, err := engine.ledger.CurrentBreakdown(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, breakdown.ActiveShowsSum())
	require.NoError(t, breakdown.Validate())
}

func TestUpdateShowAllocationPatch(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)
	allocID := allocationID(t, engine, 1)

	summary, err := svc.UpdateShowAllocation(ctx, allocID, dto.UpdateShowAllocationDTO{
		QuantityAllocated: null.IntFrom(2),
		Notes:             null.StringFrom("частичная выдача"),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, summary.AvailableQuantity)

	breakdown, _ := engine.ledger.CurrentBreakdown(ctx, 1)
	assert.Equal(t, 2, breakdown.Shows[0].QuantityAllocated)
	assert.Equal(t, 4, breakdown.Shows[0].QuantityNeeded)
	assert.Equal(t, "частичная выдача", breakdown.Shows[0].Notes)
}

func TestUpdateShowAllocationAllocatedAboveNeeded(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)

	_, err = svc.UpdateShowAllocation(ctx, allocationID(t, engine, 1), dto.UpdateShowAllocationDTO{
		QuantityAllocated: null.IntFrom(5),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestStatusTransitionMatrix(t *testing.T) {
	live := []string{
		constants.ShowStatusRequested,
		constants.ShowStatusAllocated,
		constants.ShowStatusCheckedOut,
		constants.ShowStatusInUse,
	}

	for _, from := range live {
		for _, to := range constants.ShowStatuses {
			if from == to {
				continue
			}
			alloc := &entities.ShowAllocation{ID: 1, EquipmentID: 1, ShowID: 1, QuantityNeeded: 4, QuantityAllocated: 4, Status: from}
			b := &entities.Breakdown{
				Equipment: entities.EquipmentUnit{ID: 1, TotalQuantity: 10, InstallationType: "portable"},
				Shows:     []entities.ShowAllocation{*alloc},
			}
			result := validateTransition(b, alloc, to, 4)
			assert.True(t, result.Valid, "переход %s -> %s должен быть разрешён", from, to)
		}
	}

	// Из returned пути нет.
	alloc := &entities.ShowAllocation{ID: 1, EquipmentID: 1, ShowID: 1, QuantityNeeded: 4, QuantityAllocated: 0, Status: constants.ShowStatusReturned}
	b := &entities.Breakdown{
		Equipment: entities.EquipmentUnit{ID: 1, TotalQuantity: 10, InstallationType: "portable"},
		Shows:     []entities.ShowAllocation{*alloc},
	}
	for _, to := range constants.ShowStatuses {
		if to == constants.ShowStatusReturned {
			continue
		}
		result := validateTransition(b, alloc, to, 4)
		assert.False(t, result.Valid, "переход returned -> %s должен быть запрещён", to)
	}
}

func TestTransitionOverlapConflict(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	// Два пересекающихся по датам шоу держат по 6 ед. при общем 10.
	// Шоу 3 без дат консервативно пересекается с любым.
	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 6})
	require.NoError(t, err)
	firstID := allocationID(t, engine, 1)

	_, err = svc.UpdateShowAllocation(ctx, firstID, dto.UpdateShowAllocationDTO{
		Status: null.StringFrom(constants.ShowStatusCheckedOut),
	})
	require.NoError(t, err)

	_, err = svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 3, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)
	secondID := allocationID(t, engine, 3)

	// Пока суммарно 10 — проходит.
	result, err := svc.ValidateStatusChange(ctx, secondID, dto.ValidateStatusDTO{Status: constants.ShowStatusInUse})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Поднимаем потребность до 5: выдача 5 при 6 уже удержанных не
	// помещается в общее количество 10.
	_, err = svc.UpdateShowAllocation(ctx, secondID, dto.UpdateShowAllocationDTO{
		QuantityNeeded: null.IntFrom(5),
	})
	require.NoError(t, err)

	five := 5
	result, err = svc.ValidateStatusChange(ctx, secondID, dto.ValidateStatusDTO{Status: constants.ShowStatusInUse, Quantity: &five})
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Conflicts)
	assert.Equal(t, firstID, result.Conflicts[0].AllocationID)
	assert.Equal(t, constants.ShowStatusCheckedOut, result.Conflicts[0].Status)
	assert.NotEmpty(t, result.Conflicts[0].Reason)
}

func TestTransitionShortfallWarning(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)
	allocID := allocationID(t, engine, 1)

	two := 2
	result, err := svc.ValidateStatusChange(ctx, allocID, dto.ValidateStatusDTO{Status: constants.ShowStatusAllocated, Quantity: &two})
	require.NoError(t, err)
	assert.True(t, result.Valid, "недостача предупреждает, но не блокирует")
	assert.Equal(t, 2, result.Missing)
	assert.NotEmpty(t, result.Warnings)
}

func TestCommitBlockedTransitionReturnsConflict(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 6})
	require.NoError(t, err)
	_, err = svc.UpdateShowAllocation(ctx, allocationID(t, engine, 1), dto.UpdateShowAllocationDTO{
		Status: null.StringFrom(constants.ShowStatusInUse),
	})
	require.NoError(t, err)

	// Шоу 3 без дат: выдача его 5 ед. при 6 уже в работе не пройдёт.
	_, err = svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 3, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)
	_, err = svc.UpdateShowAllocation(ctx, allocationID(t, engine, 3), dto.UpdateShowAllocationDTO{
		QuantityNeeded:    null.IntFrom(5),
		QuantityAllocated: null.IntFrom(5),
		Status:            null.StringFrom(constants.ShowStatusCheckedOut),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	httpErr := err.(*apperrors.HttpError)
	assert.NotEmpty(t, httpErr.Details["conflicts"])
}

func TestRemoveShowAllocationReturnsUnits(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)
	ctx := context.Background()

	_, err := svc.AllocateToShow(ctx, dto.CreateShowAllocationDTO{ShowID: 1, EquipmentID: 1, QuantityNeeded: 4})
	require.NoError(t, err)

	summary, err := svc.RemoveShowAllocation(ctx, allocationID(t, engine, 1))
	require.NoError(t, err)
	assert.Equal(t, 10, summary.AvailableQuantity)

	breakdown, _ := engine.ledger.CurrentBreakdown(ctx, 1)
	assert.Empty(t, breakdown.Shows)
}

func TestRemoveShowAllocationNotFound(t *testing.T) {
	engine := newTestEngine(t)
	svc := engine.showAllocations(t)

	_, err := svc.RemoveShowAllocation(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

// --- вспомогательные ---

func allocationID(t *testing.T, engine *testEngine, showID uint64) uint64 {
	t.Helper()
	breakdown, err := engine.ledger.CurrentBreakdown(context.Background(), 1)
	require.NoError(t, err)
	alloc := breakdown.FindShowAllocationByShow(showID)
	require.NotNil(t, alloc, "бронь шоу %d не найдена", showID)
	return alloc.ID
}

func statusOfShow(t *testing.T, engine *testEngine, showID uint64) string {
	t.Helper()
	breakdown, err := engine.ledger.CurrentBreakdown(context.Background(), 1)
	require.NoError(t, err)
	alloc := breakdown.FindShowAllocationByShow(showID)
	require.NotNil(t, alloc)
	return alloc.Status
}
