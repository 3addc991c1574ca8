package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dteaa/membership_service/internal/domain"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestProfileRepository_VerifyPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "review_logs"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Verify(context.Background(), "u1", "admin-1", time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_VerifyNotPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Verify(context.Background(), "u1", "admin-1", time.Now())
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_RejectMissingProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.Reject(context.Background(), "ghost", "admin-1", "blurry receipt")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_InsertDuplicateAlumniID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(`INSERT INTO "profiles"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_profiles_alumni_id"})

	err := repo.Insert(context.Background(), &domain.Profile{
		ID:       "u1",
		AlumniID: "DTEAA-1999-0001",
		Email:    "a@b.co",
		Status:   domain.ProfileStatusPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateAlumniID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_InsertDuplicateProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(`INSERT INTO "profiles"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_pkey"})

	err := repo.Insert(context.Background(), &domain.Profile{ID: "u1", AlumniID: "DTEAA-1999-0002", Status: domain.ProfileStatusPending})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestProfileRepository_FindByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_ListByStatusPreloadsPersonal(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "alumni_id", "status"}).
			AddRow("u1", "DTEAA-1999-0001", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "personal_details"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "first_name", "pass_out_year"}).
			AddRow(1, "u1", "Asha", 1999))

	profiles, err := repo.ListByStatus(context.Background(), domain.ProfileStatusPending, 20, 0)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.NotNil(t, profiles[0].Personal)
	assert.Equal(t, "Asha", profiles[0].Personal.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_IsAdmin(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "admins"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.IsAdmin(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectChildDeletes(mock sqlmock.Sqlmock) {
	for _, table := range []string{
		"personal_details",
		"contact_details",
		"employee_experiences",
		"entrepreneur_experiences",
		"open_to_works",
		"privacy_settings",
	} {
		mock.ExpectExec(`DELETE FROM "` + table + `" WHERE profile_id = \$1`).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestProfileRepository_ReplaceSectionsDeletesThenInserts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET .* WHERE id = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectChildDeletes(mock)
	mock.ExpectQuery(`INSERT INTO "personal_details"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`INSERT INTO "contact_details"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery(`INSERT INTO "employee_experiences"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21).AddRow(22))
	mock.ExpectQuery(`INSERT INTO "privacy_settings"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
	mock.ExpectCommit()

	profile := &domain.Profile{
		ID:       "u1",
		Personal: &domain.PersonalDetails{ID: 4, FirstName: "Asha", LastName: "Rani", PassOutYear: 1999},
		Contact:  &domain.ContactDetails{ID: 5, Mobile: "+919043672733"},
		Employees: []domain.EmployeeExperience{
			{ID: 6, CompanyName: "Old"},
			{ID: 7, CompanyName: "Acme", IsCurrentEmployer: true},
		},
		Privacy: &domain.PrivacySettings{ShowPhone: true},
	}
	require.NoError(t, repo.ReplaceSections(context.Background(), profile))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "u1", profile.Personal.ProfileID)
	for _, e := range profile.Employees {
		assert.Equal(t, "u1", e.ProfileID)
	}
}

func TestProfileRepository_ReplaceSectionsMissingProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReplaceSections(context.Background(), &domain.Profile{ID: "ghost"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_ResubmitRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectChildDeletes(mock)
	mock.ExpectQuery(`INSERT INTO "personal_details"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Resubmit(context.Background(), &domain.Profile{
		ID:                "u1",
		PaymentReceiptURL: "https://cdn.test/receipts/u1.jpg",
		Personal:          &domain.PersonalDetails{FirstName: "Asha", PassOutYear: 1999},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_ResubmitNotRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Resubmit(context.Background(), &domain.Profile{ID: "u1", Personal: &domain.PersonalDetails{FirstName: "Asha"}})
	assert.ErrorIs(t, err, ErrNotRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_ListDirectoryOnlyVerified(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`FROM "profiles" JOIN personal_details ON .* WHERE profiles.status = \$1 AND .*personal_details.first_name ILIKE \$2 OR personal_details.last_name ILIKE \$3.* AND personal_details.pass_out_year = \$4`).
		WithArgs(string(domain.ProfileStatusVerified), "%asha%", "%asha%", 1999, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	profiles, err := repo.ListDirectory(context.Background(), DirectoryFilter{
		Query:       "  asha ",
		PassOutYear: 1999,
		Limit:       20,
	})
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.NoError(t, mock.ExpectationsWereMet())
}
