package services

import (
	"context"
	"errors"

	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/repositories"
	"github.com/healthbridge/backend/utils"
	"go.uber.org/zap"
)

// UpdateDoctorInput is a partial profile update. Nil fields are left untouched.
type UpdateDoctorInput struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=255"`
	Specialization *string `json:"specialization" validate:"omitempty,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,e164"`
	HospitalID     *string `json:"hospital_id" validate:"omitempty,max=64"`
}

func (in UpdateDoctorInput) empty() bool {
	return in.Name == nil && in.Specialization == nil && in.Phone == nil && in.HospitalID == nil
}

// RegisterDoctorInput provisions a new doctor account
type RegisterDoctorInput struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Specialization string `json:"specialization" validate:"omitempty,max=255"`
	Phone          string `json:"phone" validate:"omitempty,e164"`
	HospitalID     string `json:"hospital_id" validate:"omitempty,max=64"`
}

// DoctorService holds the doctor profile use cases
type DoctorService struct {
	doctors repositories.DoctorRepository
	txMgr   repositories.TransactionManager
	logger  *zap.Logger
}

// NewDoctorService creates a new DoctorService
func NewDoctorService(doctors repositories.DoctorRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *DoctorService {
	return &DoctorService{
		doctors: doctors,
		txMgr:   txMgr,
		logger:  logger,
	}
}

// GetProfile loads a doctor by ID
func (s *DoctorService) GetProfile(ctx context.Context, id string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return doctor, nil
}

// Register creates a doctor after checking that the email is not taken
func (s *DoctorService) Register(ctx context.Context, input RegisterDoctorInput) (*models.Doctor, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError("invalid doctor registration", err)
	}

	doctor, err := InTransactionResult(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) (*models.Doctor, error) {
		doctors := s.doctors.WithTx(tx)

		existing, err := doctors.GetByEmail(txCtx, input.Email)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateEmail.WithDetail("email", input.Email)
		}

		doctor := models.NewDoctor(input.Name, input.Email, input.Specialization)
		doctor.Phone = input.Phone
		if input.HospitalID != "" {
			hospitalID := input.HospitalID
			doctor.HospitalID = &hospitalID
		}

		if err := doctors.Create(txCtx, doctor); err != nil {
			return nil, err
		}
		return doctor, nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("doctor registered", zap.String("doctor_id", doctor.ID))
	return doctor, nil
}

// UpdateProfile validates input and applies it to the stored doctor inside a transaction
func (s *DoctorService) UpdateProfile(ctx context.Context, id string, input UpdateDoctorInput) (*models.Doctor, error) {
	if input.empty() {
		return nil, ErrInvalidInput.WithDetail("body", "at least one field must be provided")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError("invalid profile update", err)
	}

	doctor, err := InTransactionResult(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) (*models.Doctor, error) {
		doctors := s.doctors.WithTx(tx)

		doctor, err := doctors.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}

		applyUpdate(doctor, input)
		doctor.Touch()

		if err := doctors.Update(txCtx, doctor); err != nil {
			return nil, err
		}
		return doctor, nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("doctor profile updated", zap.String("doctor_id", id))
	return doctor, nil
}

func applyUpdate(doctor *models.Doctor, input UpdateDoctorInput) {
	if input.Name != nil {
		doctor.Name = *input.Name
	}
	if input.Specialization != nil {
		doctor.Specialization = *input.Specialization
	}
	if input.Phone != nil {
		doctor.Phone = *input.Phone
	}
	if input.HospitalID != nil {
		if *input.HospitalID == "" {
			doctor.HospitalID = nil
		} else {
			hospitalID := *input.HospitalID
			doctor.HospitalID = &hospitalID
		}
	}
}

func validationError(message string, err error) *DomainError {
	domainErr := NewDomainError(ErrorTypeValidation, message, err)
	for field, msg := range utils.GetValidationFields(err) {
		domainErr = domainErr.WithDetail(field, msg)
	}
	return domainErr
}

func mapRepositoryError(err error) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return NewDomainError(ErrorTypeNotFound, ErrDoctorNotFound.Message, err)
	}
	if errors.Is(err, repositories.ErrDuplicate) {
		return NewDomainError(ErrorTypeConflict, ErrDuplicateEmail.Message, err)
	}
	return WrapInternal("failed to access doctor store", err)
}
