package applicantinfra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// PostgresApplicantRepository implementación de PostgreSQL para Repository
type PostgresApplicantRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicantRepository crea el repositorio de pelamares
func NewPostgresApplicantRepository(db *sqlx.DB) applicant.Repository {
	return &PostgresApplicantRepository{
		db: db,
	}
}

const applicantColumns = `
	id, full_name, nik, email, contact_phone, birth_place, birth_date, gender,
	self_province_id, self_district_id, self_village_id, self_street, self_postal_code,
	family_province_id, family_district_id, family_village_id, family_street, family_postal_code,
	status, created_at, updated_at`

// Save inserta un expediente nuevo
func (r *PostgresApplicantRepository) Save(ctx context.Context, a *applicant.Applicant) error {
	query := `
		INSERT INTO applicants (` + applicantColumns + `)
		VALUES (
			:id, :full_name, :nik, :email, :contact_phone, :birth_place, :birth_date, :gender,
			:self_province_id, :self_district_id, :self_village_id, :self_street, :self_postal_code,
			:family_province_id, :family_district_id, :family_village_id, :family_street, :family_postal_code,
			:status, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return wrapWriteErr(err, a)
	}
	return nil
}

// Update persiste los cambios de biodata y de estado
func (r *PostgresApplicantRepository) Update(ctx context.Context, a *applicant.Applicant) error {
	query := `
		UPDATE applicants SET
			full_name = :full_name,
			contact_phone = :contact_phone,
			birth_place = :birth_place,
			birth_date = :birth_date,
			gender = :gender,
			self_province_id = :self_province_id,
			self_district_id = :self_district_id,
			self_village_id = :self_village_id,
			self_street = :self_street,
			self_postal_code = :self_postal_code,
			family_province_id = :family_province_id,
			family_district_id = :family_district_id,
			family_village_id = :family_village_id,
			family_street = :family_street,
			family_postal_code = :family_postal_code,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return wrapWriteErr(err, a)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to update applicant", errx.TypeInternal)
	}
	if rows == 0 {
		return applicant.ErrNotFound().WithDetail("applicant_id", a.ID.String())
	}
	return nil
}

// FindByID busca un pelamar por su ID
func (r *PostgresApplicantRepository) FindByID(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`

	var a applicant.Applicant
	err := r.db.GetContext(ctx, &a, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, applicant.ErrNotFound().WithDetail("applicant_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find applicant by id", errx.TypeInternal).
			WithDetail("applicant_id", id.String())
	}
	return &a, nil
}

// FindByNIK busca un pelamar por su NIK
func (r *PostgresApplicantRepository) FindByNIK(ctx context.Context, nik string) (*applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE nik = $1`

	var a applicant.Applicant
	err := r.db.GetContext(ctx, &a, query, nik)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, applicant.ErrNotFound().WithDetail("nik", nik)
		}
		return nil, errx.Wrap(err, "failed to find applicant by nik", errx.TypeInternal)
	}
	return &a, nil
}

// List devuelve una página de pelamares para el back-office
func (r *PostgresApplicantRepository) List(ctx context.Context, filter applicant.ListFilter) ([]applicant.Applicant, int, error) {
	where := ` WHERE ($1 = '' OR status = $1)
		AND ($2 = '' OR full_name ILIKE $3 OR nik ILIKE $3 OR email ILIKE $3)`
	args := []any{string(filter.Status), filter.Search, "%" + filter.Search + "%"}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM applicants`+where, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count applicants", errx.TypeInternal)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + applicantColumns + ` FROM applicants` + where +
		` ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	args = append(args, limit, offset)

	applicants := []applicant.Applicant{}
	if err := r.db.SelectContext(ctx, &applicants, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list applicants", errx.TypeInternal)
	}
	return applicants, total, nil
}

// Delete elimina un expediente
func (r *PostgresApplicantRepository) Delete(ctx context.Context, id kernel.ApplicantID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applicants WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete applicant", errx.TypeInternal).
			WithDetail("applicant_id", id.String())
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to delete applicant", errx.TypeInternal)
	}
	if rows == 0 {
		return applicant.ErrNotFound().WithDetail("applicant_id", id.String())
	}
	return nil
}

// wrapWriteErr traduce los errores de constraint de PostgreSQL a errores de dominio
func wrapWriteErr(err error, a *applicant.Applicant) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation (nik or email)
			return applicant.ErrAlreadyExists().
				WithDetail("constraint", pqErr.Constraint).
				WithCause(err)
		case "23503": // foreign_key_violation (region ids)
			return applicant.ErrInvalidAddress().
				WithDetail("constraint", pqErr.Constraint).
				WithCause(err)
		}
	}
	return errx.Wrap(err, fmt.Sprintf("failed to persist applicant %s", a.ID.String()), errx.TypeInternal)
}
