package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "allocation-system/pkg/errors"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func validBreakdown() *Breakdown {
	return &Breakdown{
		Equipment: EquipmentUnit{ID: 1, Name: "Прожектор", TotalQuantity: 10, InstallationType: "portable"},
		Locations: []LocationAllocation{
			{ID: 1, EquipmentID: 1, Location: NamedLocation(5), Quantity: 3, Status: "allocated"},
		},
		Shows: []ShowAllocation{
			{ID: 1, EquipmentID: 1, ShowID: 7, QuantityNeeded: 4, QuantityAllocated: 4, Status: "requested"},
		},
	}
}

func TestBreakdownSums(t *testing.T) {
	b := validBreakdown()

	assert.Equal(t, 3, b.LocationsSum())
	assert.Equal(t, 4, b.ActiveShowsSum())
	assert.Equal(t, 0, b.InstallationQuantity(), "portable не учитывает установку")
	assert.Equal(t, 3, b.DefaultStorage())

	// Возвращённая бронь ничего не удерживает.
	b.Shows[0].Status = "returned"
	assert.Equal(t, 0, b.ActiveShowsSum())
	assert.Equal(t, 7, b.DefaultStorage())
}

func TestBreakdownInstallationQuantity(t *testing.T) {
	b := validBreakdown()
	b.Equipment.InstallationType = "fixed"
	b.Equipment.InstallationQuantity = 3
	b.Equipment.InstallationLocation = CustomLocation("сцена")

	assert.Equal(t, 3, b.InstallationQuantity())
	assert.Equal(t, 0, b.DefaultStorage())
	require.NoError(t, b.Validate())
}

func TestBreakdownValidateConservation(t *testing.T) {
	b := validBreakdown()
	b.Shows[0].QuantityNeeded = 8
	b.Shows[0].QuantityAllocated = 8

	err := b.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvariant))
}

func TestBreakdownValidateDuplicateLocation(t *testing.T) {
	b := validBreakdown()
	b.Locations = append(b.Locations, LocationAllocation{
		ID: 2, EquipmentID: 1, Location: NamedLocation(5), Quantity: 1, Status: "allocated",
	})

	err := b.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvariant))
}

func TestBreakdownValidateAllocationBound(t *testing.T) {
	b := validBreakdown()
	b.Shows[0].QuantityAllocated = 5 // больше QuantityNeeded

	err := b.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvariant))
}

func TestBreakdownValidateUnknownStatus(t *testing.T) {
	b := validBreakdown()
	b.Shows[0].Status = "shipped"

	require.Error(t, b.Validate())
}

func TestBreakdownValidateInstallationWithoutLocation(t *testing.T) {
	b := validBreakdown()
	b.Equipment.InstallationType = "fixed"
	b.Equipment.InstallationQuantity = 2

	require.Error(t, b.Validate())
}

func TestBreakdownCloneIsDeep(t *testing.T) {
	b := validBreakdown()
	clone := b.Clone()

	clone.Shows[0].QuantityAllocated = 1
	clone.Locations[0].Quantity = 9
	clone.Equipment.TotalQuantity = 99

	assert.Equal(t, 4, b.Shows[0].QuantityAllocated)
	assert.Equal(t, 3, b.Locations[0].Quantity)
	assert.Equal(t, 10, b.Equipment.TotalQuantity)
}

func TestDeltaApplyUpsertAndDelete(t *testing.T) {
	b := validBreakdown()

	delta := &LedgerDelta{
		UpsertShows: []ShowAllocation{
			{ID: 1, EquipmentID: 1, ShowID: 7, QuantityNeeded: 2, QuantityAllocated: 2, Status: "allocated"},
			{EquipmentID: 1, ShowID: 8, QuantityNeeded: 1, QuantityAllocated: 1, Status: "requested"},
		},
	}
	next := delta.Apply(b)

	require.Len(t, next.Shows, 2)
	assert.Equal(t, 2, next.Shows[0].QuantityAllocated)
	assert.Equal(t, uint64(8), next.Shows[1].ShowID)
	// Исходная раскладка не изменилась.
	require.Len(t, b.Shows, 1)
	assert.Equal(t, 4, b.Shows[0].QuantityAllocated)

	del := &LedgerDelta{DeleteShowIDs: []uint64{1}}
	next = del.Apply(b)
	assert.Empty(t, next.Shows)
}

func TestDeltaApplyReplaceLocations(t *testing.T) {
	b := validBreakdown()

	replacement := []LocationAllocation{
		{EquipmentID: 1, Location: CustomLocation("склад Б"), Quantity: 2, Status: "allocated"},
	}
	delta := &LedgerDelta{ReplaceLocations: &replacement}
	next := delta.Apply(b)

	require.Len(t, next.Locations, 1)
	assert.Equal(t, "склад Б", next.Locations[0].Location.String())

	empty := []LocationAllocation{}
	next = (&LedgerDelta{ReplaceLocations: &empty}).Apply(b)
	assert.Empty(t, next.Locations)
	assert.Equal(t, 6, next.DefaultStorage())
}

func TestDeltaTouchedShowIDs(t *testing.T) {
	b := validBreakdown()

	delta := &LedgerDelta{
		UpsertShows:   []ShowAllocation{{EquipmentID: 1, ShowID: 8, QuantityNeeded: 1, QuantityAllocated: 1, Status: "requested"}},
		DeleteShowIDs: []uint64{1},
	}
	assert.ElementsMatch(t, []uint64{7, 8}, delta.TouchedShowIDs(b))
}

func TestLocationRefTaggedUnion(t *testing.T) {
	named := NamedLocation(5)
	custom := CustomLocation("  Сцена  ")
	var zero LocationRef

	assert.True(t, named.IsNamed())
	assert.False(t, named.IsCustom())
	assert.True(t, custom.IsCustom())
	assert.True(t, zero.IsZero())

	assert.Equal(t, "named:5", named.Key())
	assert.Equal(t, "custom:сцена", custom.Key())

	assert.True(t, custom.Equal(CustomLocation("сцена")))
	assert.False(t, named.Equal(custom))
	assert.False(t, zero.Equal(zero), "пустые ссылки не равны ничему")
}

func TestShowOverlaps(t *testing.T) {
	a := &Show{ID: 1, StartDate: day("2026-03-01"), EndDate: day("2026-03-10")}
	b := &Show{ID: 2, StartDate: day("2026-03-10"), EndDate: day("2026-03-20")}
	c := &Show{ID: 3, StartDate: day("2026-04-01"), EndDate: day("2026-04-05")}
	noDates := &Show{ID: 4}

	assert.True(t, a.Overlaps(b), "границы включительно")
	assert.False(t, a.Overlaps(c))
	assert.True(t, a.Overlaps(noDates), "шоу без дат пересекается с любым")
	assert.True(t, noDates.Overlaps(c))
	assert.True(t, a.Overlaps(nil))
}
