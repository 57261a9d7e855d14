package kernel

import "strconv"

// ============================================================================
// Typed IDs
// ============================================================================

// RegionID identifica una región administrativa (provincia, kabupaten/kota,
// kecamatan o kelurahan). Los IDs los asigna el backend; 0 significa "sin valor".
type RegionID int64

// NewRegionID crea un RegionID a partir de un entero
func NewRegionID(id int64) RegionID {
	return RegionID(id)
}

// ParseRegionID convierte una cadena en RegionID; devuelve 0 si no es válida
func ParseRegionID(s string) RegionID {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return RegionID(id)
}

func (id RegionID) Int64() int64 {
	return int64(id)
}

func (id RegionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// IsZero indica si el ID está sin asignar
func (id RegionID) IsZero() bool {
	return id <= 0
}

// ApplicantID identifica un pelamar (CPMI)
type ApplicantID string

func NewApplicantID(id string) ApplicantID {
	return ApplicantID(id)
}

func (id ApplicantID) String() string {
	return string(id)
}

func (id ApplicantID) IsZero() bool {
	return id == ""
}

// StaffID identifica un usuario de back-office (staff o admin) emitido por el
// servicio de autenticación externo
type StaffID string

func NewStaffID(id string) StaffID {
	return StaffID(id)
}

func (id StaffID) String() string {
	return string(id)
}
