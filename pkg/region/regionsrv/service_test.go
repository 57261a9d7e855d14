package regionsrv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
)

type fakeRepo struct {
	provinces []region.Province
	regencies map[kernel.RegionID][]region.Regency
	villages  map[kernel.RegionID][]region.Village
	detail    *region.VillageDetail

	listCalls int
}

func (f *fakeRepo) ListProvinces(_ context.Context, _ string) ([]region.Province, error) {
	f.listCalls++
	return f.provinces, nil
}

func (f *fakeRepo) ListRegencies(_ context.Context, provinceID kernel.RegionID, _ string) ([]region.Regency, error) {
	f.listCalls++
	return f.regencies[provinceID], nil
}

func (f *fakeRepo) ListDistricts(_ context.Context, _ kernel.RegionID, _ string) ([]region.District, error) {
	f.listCalls++
	return nil, nil
}

func (f *fakeRepo) ListVillages(_ context.Context, districtID kernel.RegionID, _ string) ([]region.Village, error) {
	f.listCalls++
	return f.villages[districtID], nil
}

func (f *fakeRepo) FindVillage(_ context.Context, id kernel.RegionID) (*region.VillageDetail, error) {
	if f.detail != nil && f.detail.ID == id {
		return f.detail, nil
	}
	return nil, region.ErrVillageNotFound().WithDetail("village_id", id.String())
}

// fakeCache es una caché en memoria compatible con region.Cache
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return data, ok
}

func (c *fakeCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	c.sets++
}

func (c *fakeCache) Invalidate(_ context.Context, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
}

func testRepo() *fakeRepo {
	return &fakeRepo{
		provinces: []region.Province{
			{ID: 10, Code: "32", Name: "JAWA BARAT"},
		},
		regencies: map[kernel.RegionID][]region.Regency{
			10: {{ID: 101, Code: "3273", Name: "KOTA BANDUNG", ProvinceID: 10}},
		},
		villages: map[kernel.RegionID][]region.Village{
			1001: {{ID: 10001, Code: "3273060001", Name: "DAGO", DistrictID: 1001}},
		},
		detail: &region.VillageDetail{
			ID:           10001,
			Code:         "3273060001",
			Name:         "DAGO",
			DistrictID:   1001,
			DistrictName: "COBLONG",
			RegencyName:  "KOTA BANDUNG",
			ProvinceName: "JAWA BARAT",
		},
	}
}

func TestZeroParentShortCircuitsWithoutStorage(t *testing.T) {
	repo := testRepo()
	svc := NewRegionService(repo, nil, time.Hour)

	regencies, err := svc.Regencies(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, regencies)
	assert.NotNil(t, regencies) // empty list, not null, on the wire

	districts, err := svc.Districts(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, districts)

	villages, err := svc.Villages(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, villages)

	assert.Equal(t, 0, repo.listCalls)
}

func TestProvincesAreParentless(t *testing.T) {
	repo := testRepo()
	svc := NewRegionService(repo, nil, time.Hour)

	provinces, err := svc.Provinces(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, provinces, 1)
	assert.Equal(t, "JAWA BARAT", provinces[0].Name)
}

func TestListUsesCacheOnSecondCall(t *testing.T) {
	repo := testRepo()
	cache := newFakeCache()
	svc := NewRegionService(repo, cache, time.Hour)

	first, err := svc.Regencies(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Regencies(context.Background(), 10, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls) // served from cache
	assert.Equal(t, 1, cache.hits)
}

func TestCorruptCacheEntryIsDiscarded(t *testing.T) {
	repo := testRepo()
	cache := newFakeCache()
	svc := NewRegionService(repo, cache, time.Hour)

	cache.entries[cacheKey(region.LevelRegency, 10, "")] = []byte("{not json")

	regencies, err := svc.Regencies(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, regencies, 1)
	assert.Equal(t, 1, repo.listCalls) // fell through to the repository
}

func TestCacheKeysSeparateSearchTerms(t *testing.T) {
	assert.NotEqual(t,
		cacheKey(region.LevelRegency, 10, ""),
		cacheKey(region.LevelRegency, 10, "bandung"))
	assert.NotEqual(t,
		cacheKey(region.LevelRegency, 10, ""),
		cacheKey(region.LevelDistrict, 10, ""))
}

func TestVillageByIDReturnsHierarchy(t *testing.T) {
	svc := NewRegionService(testRepo(), nil, time.Hour)

	detail, err := svc.VillageByID(context.Background(), 10001)
	require.NoError(t, err)
	assert.Equal(t, "DAGO", detail.Name)
	assert.Equal(t, kernel.RegionID(1001), detail.DistrictID)
	assert.Equal(t, "KOTA BANDUNG", detail.RegencyName)
}

func TestVillageByIDZeroIDIsNotFound(t *testing.T) {
	svc := NewRegionService(testRepo(), nil, time.Hour)

	_, err := svc.VillageByID(context.Background(), 0)
	require.Error(t, err)
}
