package applicant

import (
	"net/http"
	"time"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// ============================================================================
// Applicant Entity
// ============================================================================

// Status define los posibles estados del expediente de un pelamar
type Status string

const (
	StatusDraft     Status = "DRAFT"     // Registrado, biodata incompleta
	StatusSubmitted Status = "SUBMITTED" // Biodata enviada, pendiente de revisión
	StatusVerified  Status = "VERIFIED"  // Revisada y aprobada por el staff
	StatusRejected  Status = "REJECTED"
)

// Gender según el KTP
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Address es la dirección administrativa de tres niveles que se persiste en
// el registro de negocio: provincia, kabupaten/kota ("district") y
// kelurahan/desa. El kecamatan intermedio existe solo en el cascade del
// formulario y nunca llega aquí.
type Address struct {
	ProvinceID *kernel.RegionID `db:"province_id" json:"province"`
	DistrictID *kernel.RegionID `db:"district_id" json:"district"`
	VillageID  *kernel.RegionID `db:"village_id" json:"village"`
	Street     string           `db:"street" json:"street"`
	PostalCode string           `db:"postal_code" json:"postal_code"`
}

// IsEmpty indica si la dirección no tiene ningún nivel asignado
func (a Address) IsEmpty() bool {
	return a.ProvinceID == nil && a.DistrictID == nil && a.VillageID == nil
}

// Applicant es la entidad de biodata del pelamar
type Applicant struct {
	ID           kernel.ApplicantID `db:"id" json:"id"`
	FullName     string             `db:"full_name" json:"full_name"`
	NIK          string             `db:"nik" json:"nik"` // 16-digit national id
	Email        string             `db:"email" json:"email"`
	ContactPhone string             `db:"contact_phone" json:"contact_phone"`
	BirthPlace   string             `db:"birth_place" json:"birth_place"`
	BirthDate    *time.Time         `db:"birth_date" json:"birth_date,omitempty"`
	Gender       Gender             `db:"gender" json:"gender"`

	// Alamat sendiri (domicilio actual del pelamar)
	SelfProvinceID *kernel.RegionID `db:"self_province_id" json:"self_province"`
	SelfDistrictID *kernel.RegionID `db:"self_district_id" json:"self_district"`
	SelfVillageID  *kernel.RegionID `db:"self_village_id" json:"self_village"`
	SelfStreet     string           `db:"self_street" json:"self_street"`
	SelfPostalCode string           `db:"self_postal_code" json:"self_postal_code"`

	// Alamat keluarga (contacto de emergencia)
	FamilyProvinceID *kernel.RegionID `db:"family_province_id" json:"family_province"`
	FamilyDistrictID *kernel.RegionID `db:"family_district_id" json:"family_district"`
	FamilyVillageID  *kernel.RegionID `db:"family_village_id" json:"family_village"`
	FamilyStreet     string           `db:"family_street" json:"family_street"`
	FamilyPostalCode string           `db:"family_postal_code" json:"family_postal_code"`

	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SelfAddress arma la dirección propia como value object
func (a *Applicant) SelfAddress() Address {
	return Address{
		ProvinceID: a.SelfProvinceID,
		DistrictID: a.SelfDistrictID,
		VillageID:  a.SelfVillageID,
		Street:     a.SelfStreet,
		PostalCode: a.SelfPostalCode,
	}
}

// FamilyAddress arma la dirección familiar como value object
func (a *Applicant) FamilyAddress() Address {
	return Address{
		ProvinceID: a.FamilyProvinceID,
		DistrictID: a.FamilyDistrictID,
		VillageID:  a.FamilyVillageID,
		Street:     a.FamilyStreet,
		PostalCode: a.FamilyPostalCode,
	}
}

// SetSelfAddress aplica la dirección propia
func (a *Applicant) SetSelfAddress(addr Address) {
	a.SelfProvinceID = addr.ProvinceID
	a.SelfDistrictID = addr.DistrictID
	a.SelfVillageID = addr.VillageID
	a.SelfStreet = addr.Street
	a.SelfPostalCode = addr.PostalCode
	a.UpdatedAt = time.Now()
}

// SetFamilyAddress aplica la dirección familiar
func (a *Applicant) SetFamilyAddress(addr Address) {
	a.FamilyProvinceID = addr.ProvinceID
	a.FamilyDistrictID = addr.DistrictID
	a.FamilyVillageID = addr.VillageID
	a.FamilyStreet = addr.Street
	a.FamilyPostalCode = addr.PostalCode
	a.UpdatedAt = time.Now()
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsEditable indica si el pelamar aún puede modificar su biodata
func (a *Applicant) IsEditable() bool {
	return a.Status == StatusDraft || a.Status == StatusRejected
}

// Submit envía la biodata a revisión
func (a *Applicant) Submit() error {
	if !a.IsEditable() {
		return ErrInvalidStatus().WithDetail("current_status", a.Status)
	}
	if a.SelfAddress().IsEmpty() {
		return ErrIncompleteBiodata().WithDetail("missing", "self_address")
	}

	a.Status = StatusSubmitted
	a.UpdatedAt = time.Now()
	return nil
}

// Verify aprueba la biodata enviada
func (a *Applicant) Verify() error {
	if a.Status != StatusSubmitted {
		return ErrInvalidStatus().WithDetail("current_status", a.Status)
	}
	a.Status = StatusVerified
	a.UpdatedAt = time.Now()
	return nil
}

// Reject devuelve la biodata al pelamar para corrección
func (a *Applicant) Reject() error {
	if a.Status != StatusSubmitted {
		return ErrInvalidStatus().WithDetail("current_status", a.Status)
	}
	a.Status = StatusRejected
	a.UpdatedAt = time.Now()
	return nil
}

// ============================================================================
// Service DTOs
// ============================================================================

// AddressInput es la dirección tal como llega del formulario con el cascade.
// The ids are the persisted triple; the kecamatan never travels.
type AddressInput struct {
	Province   *kernel.RegionID `json:"province"`
	District   *kernel.RegionID `json:"district"`
	Village    *kernel.RegionID `json:"village"`
	Street     string           `json:"street" validate:"omitempty,max=255"`
	PostalCode string           `json:"postal_code" validate:"omitempty,len=5,numeric"`
}

func (in AddressInput) toAddress() Address {
	return Address{
		ProvinceID: in.Province,
		DistrictID: in.District,
		VillageID:  in.Village,
		Street:     in.Street,
		PostalCode: in.PostalCode,
	}
}

// RegisterRequest crea el expediente inicial del pelamar
type RegisterRequest struct {
	FullName     string `json:"full_name" validate:"required,min=3,max=150"`
	NIK          string `json:"nik" validate:"required,len=16,numeric"`
	Email        string `json:"email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"required,min=8,max=20"`
}

// UpdateBiodataRequest completa o corrige la biodata
type UpdateBiodataRequest struct {
	FullName      *string       `json:"full_name,omitempty" validate:"omitempty,min=3,max=150"`
	ContactPhone  *string       `json:"contact_phone,omitempty" validate:"omitempty,min=8,max=20"`
	BirthPlace    *string       `json:"birth_place,omitempty" validate:"omitempty,max=100"`
	BirthDate     *time.Time    `json:"birth_date,omitempty"`
	Gender        *Gender       `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	SelfAddress   *AddressInput `json:"self_address,omitempty"`
	FamilyAddress *AddressInput `json:"family_address,omitempty"`
}

// ListFilter filtra el listado del back-office
type ListFilter struct {
	Status Status `json:"status,omitempty"`
	Search string `json:"search,omitempty"` // matches name, NIK or email
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// ListResponse es la página de resultados del back-office
type ListResponse struct {
	Applicants []Applicant `json:"applicants"`
	Total      int         `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("APPLICANT")

var (
	CodeNotFound          = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Pelamar no encontrado")
	CodeAlreadyExists     = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Ya existe un pelamar con ese NIK")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeBusiness, http.StatusConflict, "Estado del pelamar inválido para esta operación")
	CodeIncompleteBiodata = ErrRegistry.Register("INCOMPLETE_BIODATA", errx.TypeBusiness, http.StatusUnprocessableEntity, "Biodata incompleta")
	CodeInvalidAddress    = ErrRegistry.Register("INVALID_ADDRESS", errx.TypeValidation, http.StatusBadRequest, "Dirección administrativa inválida")
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Petición inválida")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeAlreadyExists)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrIncompleteBiodata() *errx.Error {
	return ErrRegistry.New(CodeIncompleteBiodata)
}

func ErrInvalidAddress() *errx.Error {
	return ErrRegistry.New(CodeInvalidAddress)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
