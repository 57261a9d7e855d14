package region

import (
	"context"
	"time"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// Repository define la persistencia del directorio de regiones
type Repository interface {
	ListProvinces(ctx context.Context, search string) ([]Province, error)
	ListRegencies(ctx context.Context, provinceID kernel.RegionID, search string) ([]Regency, error)
	ListDistricts(ctx context.Context, regencyID kernel.RegionID, search string) ([]District, error)
	ListVillages(ctx context.Context, districtID kernel.RegionID, search string) ([]Village, error)
	FindVillage(ctx context.Context, id kernel.RegionID) (*VillageDetail, error)
}

// DatasetWriter define las operaciones de carga masiva usadas por el importer.
// Upserts match on the official code, so re-imports are idempotent.
type DatasetWriter interface {
	UpsertProvince(ctx context.Context, code, name string) (kernel.RegionID, error)
	UpsertRegency(ctx context.Context, provinceID kernel.RegionID, code, name string) (kernel.RegionID, error)
	UpsertDistrict(ctx context.Context, regencyID kernel.RegionID, code, name string) (kernel.RegionID, error)
	UpsertVillage(ctx context.Context, districtID kernel.RegionID, code, name string) (kernel.RegionID, error)
	ClearAll(ctx context.Context) error
}

// Cache es la capa read-through para los listados de dropdowns.
// Best effort: a cache failure must degrade to the repository, never surface.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}
