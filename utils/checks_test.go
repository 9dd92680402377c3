package utils

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func TestIsParticipantTrue(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "participants"`).
		WithArgs("conv-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := IsParticipant(gormDB, "user-1", "conv-1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsParticipantFalse(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "participants"`).
		WithArgs("conv-1", "user-2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := IsParticipant(gormDB, "user-2", "conv-1")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdmin(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "participants"`).
		WithArgs("conv-1", "user-1", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := IsAdmin(gormDB, "user-1", "conv-1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckConversationExistsNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "conversations"`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	conversation, err := CheckConversationExists(gormDB, "missing")
	assert.Nil(t, conversation)
	assert.EqualError(t, err, "conversation not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveGroupRooms(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT "participants"\."conversation_id" FROM "participants" JOIN conversations`).
		WithArgs("user-1", "group").
		WillReturnRows(sqlmock.NewRows([]string{"conversation_id"}).
			AddRow("conv-1").
			AddRow("conv-2"))

	rooms, err := ResolveGroupRooms(gormDB, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"conv-1", "conv-2"}, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
