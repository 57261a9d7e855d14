package regioninfra

import (
	"context"
	"database/sql"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRegionRepository implementación de PostgreSQL para el directorio
// de regiones. Los listados replican el contrato de los dropdowns: orden por
// nombre, filtro por parent id y búsqueda opcional sobre nombre/código.
type PostgresRegionRepository struct {
	db *sqlx.DB
}

// NewPostgresRegionRepository crea el repositorio de regiones
func NewPostgresRegionRepository(db *sqlx.DB) *PostgresRegionRepository {
	return &PostgresRegionRepository{
		db: db,
	}
}

var (
	_ region.Repository    = (*PostgresRegionRepository)(nil)
	_ region.DatasetWriter = (*PostgresRegionRepository)(nil)
)

// searchPattern convierte el término de búsqueda en un patrón ILIKE
func searchPattern(search string) string {
	return "%" + search + "%"
}

// ListProvinces lista todas las provincias, opcionalmente filtradas
func (r *PostgresRegionRepository) ListProvinces(ctx context.Context, search string) ([]region.Province, error) {
	query := `
		SELECT id, code, name
		FROM region_provinces
		WHERE ($1 = '' OR name ILIKE $2 OR code ILIKE $2)
		ORDER BY name ASC`

	provinces := []region.Province{}
	err := r.db.SelectContext(ctx, &provinces, query, search, searchPattern(search))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list provinces", errx.TypeInternal).
			WithDetail("search", search)
	}

	return provinces, nil
}

// ListRegencies lista kabupaten/kota de una provincia
func (r *PostgresRegionRepository) ListRegencies(ctx context.Context, provinceID kernel.RegionID, search string) ([]region.Regency, error) {
	query := `
		SELECT id, code, name, province_id
		FROM region_regencies
		WHERE province_id = $1
		  AND ($2 = '' OR name ILIKE $3 OR code ILIKE $3)
		ORDER BY name ASC`

	regencies := []region.Regency{}
	err := r.db.SelectContext(ctx, &regencies, query, provinceID.Int64(), search, searchPattern(search))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list regencies", errx.TypeInternal).
			WithDetail("province_id", provinceID.String())
	}

	return regencies, nil
}

// ListDistricts lista kecamatan de un kabupaten/kota
func (r *PostgresRegionRepository) ListDistricts(ctx context.Context, regencyID kernel.RegionID, search string) ([]region.District, error) {
	query := `
		SELECT id, code, name, regency_id
		FROM region_districts
		WHERE regency_id = $1
		  AND ($2 = '' OR name ILIKE $3 OR code ILIKE $3)
		ORDER BY name ASC`

	districts := []region.District{}
	err := r.db.SelectContext(ctx, &districts, query, regencyID.Int64(), search, searchPattern(search))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list districts", errx.TypeInternal).
			WithDetail("regency_id", regencyID.String())
	}

	return districts, nil
}

// ListVillages lista kelurahan/desa de un kecamatan
func (r *PostgresRegionRepository) ListVillages(ctx context.Context, districtID kernel.RegionID, search string) ([]region.Village, error) {
	query := `
		SELECT id, code, name, district_id
		FROM region_villages
		WHERE district_id = $1
		  AND ($2 = '' OR name ILIKE $3 OR code ILIKE $3)
		ORDER BY name ASC`

	villages := []region.Village{}
	err := r.db.SelectContext(ctx, &villages, query, districtID.Int64(), search, searchPattern(search))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list villages", errx.TypeInternal).
			WithDetail("district_id", districtID.String())
	}

	return villages, nil
}

// FindVillage devuelve una kelurahan con su jerarquía resuelta.
// El cascade usa district_id para el backfill del kecamatan.
func (r *PostgresRegionRepository) FindVillage(ctx context.Context, id kernel.RegionID) (*region.VillageDetail, error) {
	query := `
		SELECT
			v.id, v.code, v.name, v.district_id,
			d.name AS district_name,
			rg.name AS regency_name,
			p.name AS province_name
		FROM region_villages v
		JOIN region_districts d ON d.id = v.district_id
		JOIN region_regencies rg ON rg.id = d.regency_id
		JOIN region_provinces p ON p.id = rg.province_id
		WHERE v.id = $1`

	var detail region.VillageDetail
	err := r.db.GetContext(ctx, &detail, query, id.Int64())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, region.ErrVillageNotFound().WithDetail("village_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find village", errx.TypeInternal).
			WithDetail("village_id", id.String())
	}

	return &detail, nil
}

// ============================================================================
// DatasetWriter - carga masiva del importer
// ============================================================================

// UpsertProvince inserta o actualiza una provincia por código
func (r *PostgresRegionRepository) UpsertProvince(ctx context.Context, code, name string) (kernel.RegionID, error) {
	query := `
		INSERT INTO region_provinces (code, name)
		VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, code, name); err != nil {
		return 0, r.wrapUpsertErr(err, "province", code)
	}
	return kernel.NewRegionID(id), nil
}

// UpsertRegency inserta o actualiza un kabupaten/kota por código
func (r *PostgresRegionRepository) UpsertRegency(ctx context.Context, provinceID kernel.RegionID, code, name string) (kernel.RegionID, error) {
	query := `
		INSERT INTO region_regencies (province_id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, province_id = EXCLUDED.province_id
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, provinceID.Int64(), code, name); err != nil {
		return 0, r.wrapUpsertErr(err, "regency", code)
	}
	return kernel.NewRegionID(id), nil
}

// UpsertDistrict inserta o actualiza un kecamatan por código
func (r *PostgresRegionRepository) UpsertDistrict(ctx context.Context, regencyID kernel.RegionID, code, name string) (kernel.RegionID, error) {
	query := `
		INSERT INTO region_districts (regency_id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, regency_id = EXCLUDED.regency_id
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, regencyID.Int64(), code, name); err != nil {
		return 0, r.wrapUpsertErr(err, "district", code)
	}
	return kernel.NewRegionID(id), nil
}

// UpsertVillage inserta o actualiza una kelurahan/desa por código
func (r *PostgresRegionRepository) UpsertVillage(ctx context.Context, districtID kernel.RegionID, code, name string) (kernel.RegionID, error) {
	query := `
		INSERT INTO region_villages (district_id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, district_id = EXCLUDED.district_id
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, districtID.Int64(), code, name); err != nil {
		return 0, r.wrapUpsertErr(err, "village", code)
	}
	return kernel.NewRegionID(id), nil
}

// ClearAll borra todo el dataset (los FKs tienen ON DELETE CASCADE)
func (r *PostgresRegionRepository) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE region_provinces CASCADE`)
	if err != nil {
		return errx.Wrap(err, "failed to clear region dataset", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresRegionRepository) wrapUpsertErr(err error, level, code string) *errx.Error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		// parent row missing: dataset files are inconsistent
		return region.ErrInvalidDataset().
			WithDetail("level", level).
			WithDetail("code", code)
	}
	return errx.Wrap(err, "failed to upsert "+level, errx.TypeInternal).
		WithDetail("code", code)
}
