package persistent

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGetNames(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT "address","name" FROM "creator_profiles" WHERE address IN \(\$1,\$2\) AND name <> ''`).
		WillReturnRows(sqlmock.NewRows([]string{"address", "name"}).AddRow("0xaaa", " Alice "))

	names, err := repo.GetNames([]string{"0xaaa", "0xbbb"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"0xaaa": "Alice"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNames_NoAddresses(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	names, err := NewProfileRepository(db).GetNames(nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}
