package applicant

import (
	"context"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// Repository define la persistencia del expediente del pelamar
type Repository interface {
	Save(ctx context.Context, a *Applicant) error
	Update(ctx context.Context, a *Applicant) error
	FindByID(ctx context.Context, id kernel.ApplicantID) (*Applicant, error)
	FindByNIK(ctx context.Context, nik string) (*Applicant, error)
	List(ctx context.Context, filter ListFilter) ([]Applicant, int, error)
	Delete(ctx context.Context, id kernel.ApplicantID) error
}
