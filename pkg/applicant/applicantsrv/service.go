package applicantsrv

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/logx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
)

// ApplicantService orquesta el ciclo de vida de la biodata del pelamar
type ApplicantService struct {
	repo     applicant.Repository
	regions  region.Repository
	validate *validator.Validate
}

// NewApplicantService crea el servicio de pelamares
func NewApplicantService(repo applicant.Repository, regions region.Repository) *ApplicantService {
	return &ApplicantService{
		repo:     repo,
		regions:  regions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register crea el expediente inicial en estado DRAFT
func (s *ApplicantService) Register(ctx context.Context, req applicant.RegisterRequest) (*applicant.Applicant, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, applicant.ErrInvalidRequest().WithCause(err)
	}

	now := time.Now()
	a := &applicant.Applicant{
		ID:           kernel.NewApplicantID(uuid.NewString()),
		FullName:     req.FullName,
		NIK:          req.NIK,
		Email:        req.Email,
		ContactPhone: req.ContactPhone,
		Status:       applicant.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"applicant_id": a.ID.String(),
	}).Info("Applicant registered")

	return a, nil
}

// UpdateBiodata completa o corrige la biodata de un expediente editable
func (s *ApplicantService) UpdateBiodata(ctx context.Context, id kernel.ApplicantID, req applicant.UpdateBiodataRequest) (*applicant.Applicant, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, applicant.ErrInvalidRequest().WithCause(err)
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsEditable() {
		return nil, applicant.ErrInvalidStatus().WithDetail("current_status", a.Status)
	}

	if req.FullName != nil {
		a.FullName = *req.FullName
	}
	if req.ContactPhone != nil {
		a.ContactPhone = *req.ContactPhone
	}
	if req.BirthPlace != nil {
		a.BirthPlace = *req.BirthPlace
	}
	if req.BirthDate != nil {
		a.BirthDate = req.BirthDate
	}
	if req.Gender != nil {
		a.Gender = *req.Gender
	}

	if req.SelfAddress != nil {
		addr, err := s.resolveAddress(ctx, *req.SelfAddress)
		if err != nil {
			return nil, err
		}
		a.SetSelfAddress(addr)
	}
	if req.FamilyAddress != nil {
		addr, err := s.resolveAddress(ctx, *req.FamilyAddress)
		if err != nil {
			return nil, err
		}
		a.SetFamilyAddress(addr)
	}

	a.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// resolveAddress valida la forma del triple administrativo.
// A set village requires its two ancestors, and must exist in the directory;
// referential garbage beyond that is caught by the foreign keys.
func (s *ApplicantService) resolveAddress(ctx context.Context, in applicant.AddressInput) (applicant.Address, error) {
	addr := applicant.Address{
		ProvinceID: in.Province,
		DistrictID: in.District,
		VillageID:  in.Village,
		Street:     in.Street,
		PostalCode: in.PostalCode,
	}

	if addr.VillageID != nil {
		if addr.ProvinceID == nil || addr.DistrictID == nil {
			return applicant.Address{}, applicant.ErrInvalidAddress().
				WithDetail("reason", "village set without province and district")
		}
		if _, err := s.regions.FindVillage(ctx, *addr.VillageID); err != nil {
			var xerr *errx.Error
			if ok := errors.As(err, &xerr); ok && xerr.Type == errx.TypeNotFound {
				return applicant.Address{}, applicant.ErrInvalidAddress().
					WithDetail("village_id", addr.VillageID.String())
			}
			return applicant.Address{}, err
		}
	}
	if addr.DistrictID != nil && addr.ProvinceID == nil {
		return applicant.Address{}, applicant.ErrInvalidAddress().
			WithDetail("reason", "district set without province")
	}
	return addr, nil
}

// Submit envía la biodata a revisión
func (s *ApplicantService) Submit(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	return s.transition(ctx, id, (*applicant.Applicant).Submit)
}

// Verify aprueba la biodata (operación de staff)
func (s *ApplicantService) Verify(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	return s.transition(ctx, id, (*applicant.Applicant).Verify)
}

// Reject devuelve la biodata para corrección (operación de staff)
func (s *ApplicantService) Reject(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	return s.transition(ctx, id, (*applicant.Applicant).Reject)
}

func (s *ApplicantService) transition(ctx context.Context, id kernel.ApplicantID, fn func(*applicant.Applicant) error) (*applicant.Applicant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"applicant_id": a.ID.String(),
		"status":       a.Status,
	}).Info("Applicant status changed")

	return a, nil
}

// Get devuelve un expediente por ID
func (s *ApplicantService) Get(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	return s.repo.FindByID(ctx, id)
}

// List devuelve una página de expedientes para el back-office
func (s *ApplicantService) List(ctx context.Context, filter applicant.ListFilter) (*applicant.ListResponse, error) {
	applicants, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &applicant.ListResponse{
		Applicants: applicants,
		Total:      total,
	}, nil
}

// Delete elimina un expediente (operación de staff)
func (s *ApplicantService) Delete(ctx context.Context, id kernel.ApplicantID) error {
	return s.repo.Delete(ctx, id)
}
