package region

import (
	"net/http"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// ============================================================================
// Wilayah Administratif Indonesia
// ============================================================================
//
// Hierarchy: Province (Provinsi) → Regency (Kabupaten/Kota) →
// District (Kecamatan) → Village (Kelurahan/Desa).
//
// Codes follow the official Kemendagri ids (e.g. 12 = SUMATERA UTARA,
// 1201 = KAB. TAPANULI TENGAH, 1201010, 1201010001). IDs are surrogate keys
// assigned by this backend; clients treat them as opaque positive integers.

// Level identifica un nivel administrativo
type Level string

const (
	LevelProvince Level = "province"
	LevelRegency  Level = "regency"
	LevelDistrict Level = "district"
	LevelVillage  Level = "village"
)

// Province es el nivel superior
type Province struct {
	ID   kernel.RegionID `db:"id" json:"id"`
	Code string          `db:"code" json:"code"`
	Name string          `db:"name" json:"name"`
}

// Regency es Kabupaten o Kota; en el registro de negocio se le llama "district"
type Regency struct {
	ID         kernel.RegionID `db:"id" json:"id"`
	Code       string          `db:"code" json:"code"`
	Name       string          `db:"name" json:"name"`
	ProvinceID kernel.RegionID `db:"province_id" json:"province"`
}

// District es Kecamatan; existe solo para el cascade, nunca se persiste en
// el registro de negocio del pelamar
type District struct {
	ID        kernel.RegionID `db:"id" json:"id"`
	Code      string          `db:"code" json:"code"`
	Name      string          `db:"name" json:"name"`
	RegencyID kernel.RegionID `db:"regency_id" json:"regency"`
}

// Village es Kelurahan o Desa, el nivel más granular
type Village struct {
	ID         kernel.RegionID `db:"id" json:"id"`
	Code       string          `db:"code" json:"code"`
	Name       string          `db:"name" json:"name"`
	DistrictID kernel.RegionID `db:"district_id" json:"district"`
}

// VillageDetail es la kelurahan con su jerarquía resuelta para display y para
// el backfill del cascade (el cliente solo conoce el village id al editar)
type VillageDetail struct {
	ID           kernel.RegionID `db:"id" json:"id"`
	Code         string          `db:"code" json:"code"`
	Name         string          `db:"name" json:"name"`
	DistrictID   kernel.RegionID `db:"district_id" json:"district"`
	DistrictName string          `db:"district_name" json:"district_name"`
	RegencyName  string          `db:"regency_name" json:"regency_name"`
	ProvinceName string          `db:"province_name" json:"province_name"`
}

// ============================================================================
// Service DTOs
// ============================================================================

// ListQuery son los filtros comunes de los listados por nivel
type ListQuery struct {
	// ParentID filters by the parent level's id; zero means "no parent
	// selected", which yields an empty list for every level but province.
	ParentID kernel.RegionID
	// Search matches name or code, case-insensitive substring.
	Search string
}

// ImportSummary reporta el resultado de una importación del dataset
type ImportSummary struct {
	Provinces int `json:"provinces"`
	Regencies int `json:"regencies"`
	Districts int `json:"districts"`
	Villages  int `json:"villages"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("REGION")

var (
	CodeVillageNotFound  = ErrRegistry.Register("VILLAGE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Kelurahan/desa no encontrada")
	CodeProvinceNotFound = ErrRegistry.Register("PROVINCE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Provinsi no encontrada")
	CodeInvalidDataset   = ErrRegistry.Register("INVALID_DATASET", errx.TypeValidation, http.StatusBadRequest, "Dataset de regiones inválido")
	CodeImportFailed     = ErrRegistry.Register("IMPORT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Importación de regiones fallida")
)

func ErrVillageNotFound() *errx.Error {
	return ErrRegistry.New(CodeVillageNotFound)
}

func ErrProvinceNotFound() *errx.Error {
	return ErrRegistry.New(CodeProvinceNotFound)
}

func ErrInvalidDataset() *errx.Error {
	return ErrRegistry.New(CodeInvalidDataset)
}

func ErrImportFailed() *errx.Error {
	return ErrRegistry.New(CodeImportFailed)
}
