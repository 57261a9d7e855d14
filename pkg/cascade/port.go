package cascade

import (
	"context"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// Option es un candidato seleccionable en un nivel del cascade
type Option struct {
	ID   kernel.RegionID `json:"id"`
	Name string          `json:"name"`
}

// VillageRef es una kelurahan con su kecamatan padre, usada para el backfill
type VillageRef struct {
	ID         kernel.RegionID `json:"id"`
	Name       string          `json:"name"`
	DistrictID kernel.RegionID `json:"district"`
}

// Directory define la capa de consulta del cascade: un fetcher por nivel,
// parametrizado por el id del nivel padre, más el lookup puntual de kelurahan.
//
// Implementations: the HTTP client against the regions API (mobile/SPA side)
// and the in-process adapter over the region service (server side).
type Directory interface {
	Provinces(ctx context.Context, search string) ([]Option, error)
	Regencies(ctx context.Context, provinceID kernel.RegionID, search string) ([]Option, error)
	Districts(ctx context.Context, regencyID kernel.RegionID, search string) ([]Option, error)
	Villages(ctx context.Context, districtID kernel.RegionID, search string) ([]Option, error)
	Village(ctx context.Context, id kernel.RegionID) (*VillageRef, error)
}
