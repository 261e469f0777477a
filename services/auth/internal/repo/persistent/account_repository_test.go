package persistent

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestGetByAddress(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccountRepository(db)

	lastLogin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"address", "role", "login_count", "last_login_at", "created_at", "updated_at"}).
		AddRow("0xabc", "creator", 3, lastLogin, lastLogin, lastLogin)
	mock.ExpectQuery(`SELECT \* FROM "wallet_accounts" WHERE address = \$1`).WillReturnRows(rows)

	account, err := repo.GetByAddress("0xabc")

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "creator", account.Role)
	assert.Equal(t, 3, account.LoginCount)
	assert.Equal(t, lastLogin, *account.LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByAddress_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "wallet_accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"address"}))

	account, err := repo.GetByAddress("0xnobody")

	require.NoError(t, err)
	assert.Nil(t, account)
}
