package repositories

import (
	"context"
	"errors"

	"github.com/healthbridge/backend/models"
)

// ErrNotFound is returned (wrapped) when a lookup matches no record
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned (wrapped) when a write violates a uniqueness constraint
var ErrDuplicate = errors.New("record already exists")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// DoctorRepository handles doctor data operations
type DoctorRepository interface {
	// Create creates a new doctor. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, doctor *models.Doctor) error

	// GetByID retrieves a doctor by ID. Returns ErrNotFound when no doctor matches.
	GetByID(ctx context.Context, id string) (*models.Doctor, error)

	// GetByEmail retrieves a doctor by email. Returns ErrNotFound when no doctor matches.
	GetByEmail(ctx context.Context, email string) (*models.Doctor, error)

	// Update updates a doctor's profile fields
	Update(ctx context.Context, doctor *models.Doctor) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) DoctorRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Doctors DoctorRepository
}
