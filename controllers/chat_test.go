package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"Wordlink/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupChatRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := router.Group("/auth")
	auth.Use(middleware.AuthRequired)
	{
		auth.POST("/conversations", CreateConversation(gormDB))
		auth.GET("/conversations/:conversation_id/messages", GetMessages(gormDB))
		auth.POST("/conversations/:conversation_id/leave", LeaveConversation(gormDB))
	}
	return router, mock
}

func TestCreateConversationInvalidType(t *testing.T) {
	router, _ := setupChatRouter(t)

	w := httptest.NewRecorder()
	req := authedRequest(t, "POST", "/auth/conversations",
		[]byte(`{"type":"broadcast","participantIds":["user-2"]}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "type must be one-to-one or group")
}

func TestCreateConversationOneToOneNeedsOneParticipant(t *testing.T) {
	router, _ := setupChatRouter(t)

	w := httptest.NewRecorder()
	req := authedRequest(t, "POST", "/auth/conversations",
		[]byte(`{"type":"one-to-one","participantIds":["user-2","user-3"]}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateConversationGroupNeedsName(t *testing.T) {
	router, _ := setupChatRouter(t)

	w := httptest.NewRecorder()
	req := authedRequest(t, "POST", "/auth/conversations",
		[]byte(`{"type":"group","name":"   ","participantIds":["user-2"]}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Group conversations need a name")
}

func TestGetMessagesForbiddenForNonMember(t *testing.T) {
	router, mock := setupChatRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "participants"`).
		WithArgs("conv-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "GET", "/auth/conversations/conv-1/messages", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You are not a member of this conversation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveConversationNotAMember(t *testing.T) {
	router, mock := setupChatRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "participants"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/conversations/conv-1/leave", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveConversationSuccess(t *testing.T) {
	router, mock := setupChatRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "participants"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/conversations/conv-1/leave", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Left conversation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRoutesUnauthorized(t *testing.T) {
	router, _ := setupChatRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/conversations",
		bytes.NewBufferString(`{"type":"group","name":"g"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
