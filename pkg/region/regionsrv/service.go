package regionsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/logx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
)

// RegionService sirve los listados del cascade de direcciones.
//
// Contract (shared with the mobile and SPA clients): a zero parent id yields
// an empty list without touching storage — province is the only parentless
// level. Lists come back in backend order (name ASC); callers never re-sort.
type RegionService struct {
	repo     region.Repository
	cache    region.Cache
	cacheTTL time.Duration
}

// NewRegionService crea el servicio de regiones. cache puede ser nil.
func NewRegionService(repo region.Repository, cache region.Cache, cacheTTL time.Duration) *RegionService {
	return &RegionService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// CacheKeyPrefix agrupa todas las claves de la caché de regiones
const CacheKeyPrefix = "regions:"

func cacheKey(level region.Level, parentID kernel.RegionID, search string) string {
	return fmt.Sprintf("%s%s:%d:%s", CacheKeyPrefix, level, parentID.Int64(), search)
}

// Provinces lista todas las provincias
func (s *RegionService) Provinces(ctx context.Context, search string) ([]region.Province, error) {
	return listCached(ctx, s, region.LevelProvince, 0, search, func() ([]region.Province, error) {
		return s.repo.ListProvinces(ctx, search)
	})
}

// Regencies lista kabupaten/kota de la provincia dada
func (s *RegionService) Regencies(ctx context.Context, provinceID kernel.RegionID, search string) ([]region.Regency, error) {
	if provinceID.IsZero() {
		return []region.Regency{}, nil
	}
	return listCached(ctx, s, region.LevelRegency, provinceID, search, func() ([]region.Regency, error) {
		return s.repo.ListRegencies(ctx, provinceID, search)
	})
}

// Districts lista kecamatan del kabupaten/kota dado
func (s *RegionService) Districts(ctx context.Context, regencyID kernel.RegionID, search string) ([]region.District, error) {
	if regencyID.IsZero() {
		return []region.District{}, nil
	}
	return listCached(ctx, s, region.LevelDistrict, regencyID, search, func() ([]region.District, error) {
		return s.repo.ListDistricts(ctx, regencyID, search)
	})
}

// Villages lista kelurahan/desa del kecamatan dado
func (s *RegionService) Villages(ctx context.Context, districtID kernel.RegionID, search string) ([]region.Village, error) {
	if districtID.IsZero() {
		return []region.Village{}, nil
	}
	return listCached(ctx, s, region.LevelVillage, districtID, search, func() ([]region.Village, error) {
		return s.repo.ListVillages(ctx, districtID, search)
	})
}

// VillageByID devuelve una kelurahan con su jerarquía (para el backfill)
func (s *RegionService) VillageByID(ctx context.Context, id kernel.RegionID) (*region.VillageDetail, error) {
	if id.IsZero() {
		return nil, region.ErrVillageNotFound().WithDetail("village_id", id.String())
	}
	return s.repo.FindVillage(ctx, id)
}

// InvalidateCache descarta todos los listados cacheados (tras un import)
func (s *RegionService) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, CacheKeyPrefix+"*")
	}
}

// listCached aplica el patrón cache-aside a un listado por nivel.
// Cache failures are logged and ignored; the repository is the source of truth.
func listCached[T any](ctx context.Context, s *RegionService, level region.Level, parentID kernel.RegionID, search string, load func() ([]T, error)) ([]T, error) {
	if s.cache == nil {
		return load()
	}

	key := cacheKey(level, parentID, search)
	if data, ok := s.cache.Get(ctx, key); ok {
		var cached []T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		logx.WithFields(logx.Fields{"key": key}).Warn("discarding corrupt region cache entry")
	}

	list, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return list, nil
}
