package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const doctorColumns = `id, name, email, specialization, phone, hospital_id, created_at, updated_at`

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure
const uniqueViolation = pq.ErrorCode("23505")

var doctorTable = models.Doctor{}.TableName()

// DoctorRepository implements the repositories.DoctorRepository interface
type DoctorRepository struct {
	db     *DB
	tx     *Transaction // Set by WithTx; nil means use ctx or pool
	logger *zap.Logger
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *DB, logger *zap.Logger) repositories.DoctorRepository {
	return &DoctorRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new doctor
func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	query := `
		INSERT INTO ` + doctorTable + ` (` + doctorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := executor(ctx, r.db, r.tx).ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.Specialization,
		doctor.Phone,
		nullString(doctor.HospitalID),
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("doctor %s: %w", doctor.Email, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	r.logger.Debug("doctor created", zap.String("id", doctor.ID))
	return nil
}

// GetByID retrieves a doctor by ID
func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM ` + doctorTable + ` WHERE id = $1`

	doctor, err := scanDoctor(executor(ctx, r.db, r.tx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("doctor %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

// GetByEmail retrieves a doctor by email
func (r *DoctorRepository) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM ` + doctorTable + ` WHERE email = $1`

	doctor, err := scanDoctor(executor(ctx, r.db, r.tx).QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("doctor with email %s: %w", email, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

// Update updates a doctor's mutable profile fields
func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	query := `
		UPDATE ` + doctorTable + `
		SET name = $2,
		    specialization = $3,
		    phone = $4,
		    hospital_id = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := executor(ctx, r.db, r.tx).ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.Phone,
		nullString(doctor.HospitalID),
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("doctor %s: %w", doctor.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("doctor updated", zap.String("id", doctor.ID))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *DoctorRepository) WithTx(tx repositories.Transaction) repositories.DoctorRepository {
	pgTx, _ := tx.(*Transaction)
	return &DoctorRepository{
		db:     r.db,
		tx:     pgTx,
		logger: r.logger,
	}
}

func scanDoctor(row *sql.Row) (*models.Doctor, error) {
	doctor := &models.Doctor{}
	var hospitalID sql.NullString

	err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Email,
		&doctor.Specialization,
		&doctor.Phone,
		&hospitalID,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if hospitalID.Valid {
		doctor.HospitalID = &hospitalID.String
	}
	return doctor, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
