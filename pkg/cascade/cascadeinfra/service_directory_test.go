package cascadeinfra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/cascade"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region/regionsrv"
)

type stubRegionRepo struct{}

func (stubRegionRepo) ListProvinces(_ context.Context, _ string) ([]region.Province, error) {
	return []region.Province{
		{ID: 10, Code: "32", Name: "JAWA BARAT"},
	}, nil
}

func (stubRegionRepo) ListRegencies(_ context.Context, provinceID kernel.RegionID, _ string) ([]region.Regency, error) {
	if provinceID == 10 {
		return []region.Regency{{ID: 101, Code: "3273", Name: "KOTA BANDUNG", ProvinceID: 10}}, nil
	}
	return []region.Regency{}, nil
}

func (stubRegionRepo) ListDistricts(_ context.Context, regencyID kernel.RegionID, _ string) ([]region.District, error) {
	if regencyID == 101 {
		return []region.District{{ID: 1001, Code: "327306", Name: "COBLONG", RegencyID: 101}}, nil
	}
	return []region.District{}, nil
}

func (stubRegionRepo) ListVillages(_ context.Context, districtID kernel.RegionID, _ string) ([]region.Village, error) {
	if districtID == 1001 {
		return []region.Village{{ID: 10001, Code: "3273060001", Name: "DAGO", DistrictID: 1001}}, nil
	}
	return []region.Village{}, nil
}

func (stubRegionRepo) FindVillage(_ context.Context, id kernel.RegionID) (*region.VillageDetail, error) {
	if id == 10001 {
		return &region.VillageDetail{
			ID:           10001,
			Code:         "3273060001",
			Name:         "DAGO",
			DistrictID:   1001,
			DistrictName: "COBLONG",
			RegencyName:  "KOTA BANDUNG",
			ProvinceName: "JAWA BARAT",
		}, nil
	}
	return nil, region.ErrVillageNotFound().WithDetail("village_id", id.String())
}

func newServiceDirectory() *ServiceDirectory {
	return NewServiceDirectory(regionsrv.NewRegionService(stubRegionRepo{}, nil, time.Hour))
}

func TestServiceDirectoryMapsLevelsToOptions(t *testing.T) {
	dir := newServiceDirectory()

	provinces, err := dir.Provinces(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, provinces, 1)
	assert.Equal(t, cascade.Option{ID: 10, Name: "JAWA BARAT"}, provinces[0])

	regencies, err := dir.Regencies(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, regencies, 1)
	assert.Equal(t, "KOTA BANDUNG", regencies[0].Name)

	districts, err := dir.Districts(context.Background(), 101, "")
	require.NoError(t, err)
	require.Len(t, districts, 1)

	villages, err := dir.Villages(context.Background(), 1001, "")
	require.NoError(t, err)
	require.Len(t, villages, 1)
	assert.Equal(t, "DAGO", villages[0].Name)
}

func TestServiceDirectoryVillageRef(t *testing.T) {
	dir := newServiceDirectory()

	ref, err := dir.Village(context.Background(), 10001)
	require.NoError(t, err)
	assert.Equal(t, "DAGO", ref.Name)
	assert.EqualValues(t, 1001, ref.DistrictID)

	_, err = dir.Village(context.Background(), 424242)
	require.Error(t, err)
}

// The in-process adapter has to carry a full cascade session, not just the
// one-off lookups.
func TestControllerRunsOverServiceDirectory(t *testing.T) {
	var last cascade.AddressValue
	ctrl := cascade.NewController(newServiceDirectory(),
		cascade.WithOnChange(func(v cascade.AddressValue) { last = v }),
	)

	ctx := context.Background()
	ctrl.Start(ctx)
	ctrl.WaitForIdle()
	require.Len(t, ctrl.Options(cascade.LevelProvince), 1)

	ctrl.SetProvince(ctx, 10)
	ctrl.WaitForIdle()
	require.Len(t, ctrl.Options(cascade.LevelDistrict), 1)

	ctrl.SetDistrict(ctx, 101)
	ctrl.WaitForIdle()
	ctrl.SetSubDistrict(ctx, 1001)
	ctrl.WaitForIdle()
	require.Len(t, ctrl.Options(cascade.LevelVillage), 1)

	ctrl.SetVillage(10001)

	require.NotNil(t, last.Village)
	assert.EqualValues(t, 10001, *last.Village)
	assert.EqualValues(t, 101, *last.District)
}
