package services

import (
	"context"

	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/repositories"
	"github.com/stretchr/testify/mock"
)

// MockDoctorRepository is a mock implementation of repositories.DoctorRepository
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *MockDoctorRepository) WithTx(repositories.Transaction) repositories.DoctorRepository {
	return m
}

// MockTransactionManager runs the callback inline and records the outcome
type MockTransactionManager struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	if err := fn(ctx, &stubTransaction{ctx: ctx}); err != nil {
		m.rolledBack = true
		return err
	}
	m.committed = true
	return nil
}

type stubTransaction struct {
	ctx context.Context
}

func (*stubTransaction) Commit() error              { return nil }
func (*stubTransaction) Rollback() error            { return nil }
func (t *stubTransaction) Context() context.Context { return t.ctx }
