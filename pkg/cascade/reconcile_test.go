package cascade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

func savedAddress() AddressValue {
	return AddressValue{
		Province: idPtr(10),
		District: idPtr(101),
		Village:  idPtr(10001),
	}
}

func TestBackfillResolvesSubDistrictFromVillage(t *testing.T) {
	dir := newFakeDirectory()
	var changes []AddressValue
	c := NewController(dir, WithValue(savedAddress()), WithOnChange(collect(&changes)))

	c.Start(context.Background())
	c.WaitForIdle()

	// DAGO belongs to COBLONG; the lookup adopts it as the local kecamatan
	assert.Equal(t, kernel.RegionID(1001), c.SubDistrict())
	assert.True(t, c.Enabled(LevelVillage))
	require.Len(t, c.Options(LevelVillage), 2)

	// the backfill repairs local state only; the parent's value is untouched
	assert.True(t, c.Value().Equal(savedAddress()))
	assert.Empty(t, changes)

	dir.mu.Lock()
	assert.Equal(t, 1, dir.villageLookupCalls)
	dir.mu.Unlock()
}

func TestBackfillRunsAtMostOnce(t *testing.T) {
	dir := newFakeDirectory()
	c := NewController(dir, WithValue(savedAddress()))

	c.Start(context.Background())
	c.WaitForIdle()

	// a re-render with the same value must not trigger a second lookup
	c.SetValue(context.Background(), savedAddress())
	c.SetValue(context.Background(), savedAddress())
	c.WaitForIdle()

	dir.mu.Lock()
	assert.Equal(t, 1, dir.villageLookupCalls)
	dir.mu.Unlock()
}

func TestBackfillFailureDegradesSilently(t *testing.T) {
	dir := newFakeDirectory()
	dir.villageLookupErr = assert.AnError

	var changes []AddressValue
	c := NewController(dir, WithValue(savedAddress()), WithOnChange(collect(&changes)))

	c.Start(context.Background())
	c.WaitForIdle()

	// no resolution, no emission, no retry loop
	assert.True(t, c.SubDistrict().IsZero())
	assert.False(t, c.Enabled(LevelVillage))
	assert.Empty(t, changes)

	c.SetValue(context.Background(), savedAddress())
	c.WaitForIdle()
	dir.mu.Lock()
	assert.Equal(t, 1, dir.villageLookupCalls)
	dir.mu.Unlock()

	// the manual path still works: picking the kecamatan by hand clears the
	// stale village and repopulates the list through the normal cascade
	c.SetSubDistrict(context.Background(), 1001)
	c.WaitForIdle()
	assert.True(t, c.Enabled(LevelVillage))
	require.Len(t, c.Options(LevelVillage), 2)
	assert.Nil(t, c.Value().Village)
}

func TestBackfillRearmsAfterDistrictChange(t *testing.T) {
	dir := newFakeDirectory()
	dir.villageLookupErr = assert.AnError

	c := NewController(dir, WithValue(savedAddress()))
	c.Start(context.Background())
	c.WaitForIdle()
	assert.True(t, c.SubDistrict().IsZero())

	dir.mu.Lock()
	dir.villageLookupErr = nil
	dir.mu.Unlock()

	// a new controlled value with a different district re-arms the lookup
	next := AddressValue{
		Province: idPtr(10),
		District: idPtr(102),
		Village:  idPtr(10021),
	}
	c.SetValue(context.Background(), next)
	c.WaitForIdle()

	assert.Equal(t, kernel.RegionID(1002), c.SubDistrict())
	dir.mu.Lock()
	assert.Equal(t, 2, dir.villageLookupCalls)
	dir.mu.Unlock()
}

func TestInitialSubDistrictSkipsBackfill(t *testing.T) {
	dir := newFakeDirectory()
	c := NewController(dir, WithValue(savedAddress()), WithInitialSubDistrict(1001))

	c.Start(context.Background())
	c.WaitForIdle()

	assert.Equal(t, kernel.RegionID(1001), c.SubDistrict())
	require.Len(t, c.Options(LevelVillage), 2)
	dir.mu.Lock()
	assert.Equal(t, 0, dir.villageLookupCalls)
	dir.mu.Unlock()
}

func TestBackfillSupersededByManualSelection(t *testing.T) {
	dir := newFakeDirectory()
	c := NewController(dir, WithValue(savedAddress()))

	c.Start(context.Background())
	c.WaitForIdle()

	// the user changes district after the backfill resolved; the resolved
	// kecamatan belongs to the old district and must not survive
	c.SetDistrict(context.Background(), 102)
	c.WaitForIdle()
	assert.True(t, c.SubDistrict().IsZero())
	assert.False(t, c.Enabled(LevelVillage))
}
