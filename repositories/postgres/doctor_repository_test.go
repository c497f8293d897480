package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var doctorRowColumns = []string{"id", "name", "email", "specialization", "phone", "hospital_id", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return WrapDB(sqlDB, zap.NewNop()), mock
}

func TestDoctorRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("returns doctor", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE id = \$1`).
			WithArgs("doc123").
			WillReturnRows(sqlmock.NewRows(doctorRowColumns).
				AddRow("doc123", "Dr. A", "a@clinic.example", "cardiology", "", "hosp-1", now, now))

		doctor, err := repo.GetByID(ctx, "doc123")
		require.NoError(t, err)
		assert.Equal(t, "doc123", doctor.ID)
		assert.Equal(t, "Dr. A", doctor.Name)
		require.NotNil(t, doctor.HospitalID)
		assert.Equal(t, "hosp-1", *doctor.HospitalID)
		assert.Equal(t, now, doctor.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null hospital stays nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE id = \$1`).
			WithArgs("doc123").
			WillReturnRows(sqlmock.NewRows(doctorRowColumns).
				AddRow("doc123", "Dr. A", "a@clinic.example", "", "", nil, now, now))

		doctor, err := repo.GetByID(ctx, "doc123")
		require.NoError(t, err)
		assert.Nil(t, doctor.HospitalID)
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE id = \$1`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(doctorRowColumns))

		doctor, err := repo.GetByID(ctx, "ghost")
		assert.Nil(t, doctor)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is not ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE id = \$1`).
			WithArgs("doc123").
			WillReturnError(sql.ErrConnDone)

		doctor, err := repo.GetByID(ctx, "doc123")
		assert.Nil(t, doctor)
		require.Error(t, err)
		assert.False(t, errors.Is(err, repositories.ErrNotFound))
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestDoctorRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("returns doctor", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE email = \$1`).
			WithArgs("a@clinic.example").
			WillReturnRows(sqlmock.NewRows(doctorRowColumns).
				AddRow("doc123", "Dr. A", "a@clinic.example", "", "", nil, now, now))

		doctor, err := repo.GetByEmail(ctx, "a@clinic.example")
		require.NoError(t, err)
		assert.Equal(t, "doc123", doctor.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown email maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE email = \$1`).
			WithArgs("new@clinic.example").
			WillReturnRows(sqlmock.NewRows(doctorRowColumns))

		doctor, err := repo.GetByEmail(ctx, "new@clinic.example")
		assert.Nil(t, doctor)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestDoctorRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts doctor", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())
		doctor := models.NewDoctor("Dr. A", "a@clinic.example", "cardiology")

		mock.ExpectExec(`INSERT INTO doctors`).
			WithArgs(doctor.ID, "Dr. A", "a@clinic.example", "cardiology", "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, doctor))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())
		doctor := models.NewDoctor("Dr. A", "a@clinic.example", "")

		mock.ExpectExec(`INSERT INTO doctors`).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.Create(ctx, doctor)
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other driver errors pass through", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectExec(`INSERT INTO doctors`).WillReturnError(sql.ErrConnDone)

		err := repo.Create(ctx, models.NewDoctor("Dr. A", "a@clinic.example", ""))
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.False(t, errors.Is(err, repositories.ErrDuplicate))
	})
}

func TestDoctorRepository_Update(t *testing.T) {
	ctx := context.Background()
	hospital := "hosp-9"

	t.Run("updates profile", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())
		doctor := &models.Doctor{ID: "doc123", Name: "Dr. B", HospitalID: &hospital, UpdatedAt: time.Now()}

		mock.ExpectExec(`UPDATE doctors`).
			WithArgs("doc123", "Dr. B", "", "", "hosp-9", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(ctx, doctor))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())

		mock.ExpectExec(`UPDATE doctors`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &models.Doctor{ID: "ghost"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestTransactionManager_InTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and routes queries through the transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())
		tm := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE doctors`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
			return repo.Update(txCtx, &models.Doctor{ID: "doc123", Name: "Dr. A"})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := tm.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = tm.InTransaction(ctx, func(context.Context, repositories.Transaction) error {
				panic("kaboom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WithTx binds repository to explicit transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db, zap.NewNop())
		tm := NewTransactionManager(db, zap.NewNop())
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .+ FROM doctors WHERE id = \$1`).
			WithArgs("doc123").
			WillReturnRows(sqlmock.NewRows(doctorRowColumns).
				AddRow("doc123", "Dr. A", "a@clinic.example", "", "", nil, now, now))
		mock.ExpectCommit()

		tx, err := tm.Begin(ctx)
		require.NoError(t, err)

		// Plain context: the bound transaction is still used
		doctor, err := repo.WithTx(tx).GetByID(ctx, "doc123")
		require.NoError(t, err)
		assert.Equal(t, "doc123", doctor.ID)

		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_HealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		assert.NoError(t, WrapDB(sqlDB, zap.NewNop()).HealthCheck(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping failure", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing().WillReturnError(sql.ErrConnDone)

		err = WrapDB(sqlDB, zap.NewNop()).HealthCheck(ctx)
		assert.ErrorContains(t, err, "database health check failed")
	})
}

func TestDB_InitSchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS doctors`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
