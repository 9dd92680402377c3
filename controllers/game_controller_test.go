package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"Wordlink/middleware"
	gamesync "Wordlink/sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGameRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	gc := &GameController{
		DB:          gormDB,
		SyncManager: gamesync.NewSyncManager(),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := router.Group("/auth")
	auth.Use(middleware.AuthRequired)
	{
		auth.GET("/games/:game_id", gc.GetGame)
		auth.GET("/conversations/:conversation_id/active-game", gc.GetActiveGame)
		auth.POST("/games", gc.CreateGame)
		auth.POST("/games/join", gc.JoinGame)
		auth.POST("/games/start", gc.StartGame)
		auth.POST("/games/end", gc.EndGame)
		auth.POST("/games/guess", gc.SubmitGuess)
	}
	return router, mock
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	token, err := middleware.GenerateToken("user-1")
	require.NoError(t, err)

	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestGetGameNotFound(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("missing-game", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "GET", "/auth/games/missing-game", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Game not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameUnauthorized(t *testing.T) {
	router, _ := setupGameRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/games/some-game", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetActiveGameNotFound(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("conv-1", "waiting", "active", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "GET", "/auth/conversations/conv-1/active-game", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No active game found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartGameOnlyCreator(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("game-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "status", "created_by"}).
			AddRow("game-1", "conv-1", "waiting", "someone-else"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/start",
		[]byte(`{"gameId":"game-1"}`)))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only the game creator can start the game")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartGameMissingBody(t *testing.T) {
	router, _ := setupGameRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/start", []byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitGuessGameNotActive(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("game-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "status", "created_by"}).
			AddRow("game-1", "conv-1", "waiting", "user-1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/guess",
		[]byte(`{"gameId":"game-1","word":"CRANE"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Game is not active")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameRejectsSecondActiveGame(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "participants"`).
		WithArgs("conv-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// A waiting or active game already exists in the conversation
	mock.ExpectQuery(`SELECT count\(\*\) FROM "word_games"`).
		WithArgs("conv-1", "waiting", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games",
		[]byte(`{"conversationId":"conv-1"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "There's already an active game in this group")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinGameTwiceDoesNotDuplicatePlayer(t *testing.T) {
	router, mock := setupGameRouter(t)

	expectEnrolledJoin := func() {
		mock.ExpectQuery(`SELECT \* FROM "word_games"`).
			WithArgs("game-1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "status", "created_by"}).
				AddRow("game-1", "conv-1", "waiting", "user-2"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "game_players"`).
			WithArgs("game-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "game_players"`).
			WithArgs("game-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}

	// Both calls succeed and neither reaches an INSERT
	for i := 0; i < 2; i++ {
		expectEnrolledJoin()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/join",
			[]byte(`{"gameId":"game-1"}`)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "You are already in this game")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitGuessWinCompletesGame(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("game-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "status", "created_by", "target_word", "word_length", "max_attempts"}).
			AddRow("game-1", "conv-1", "active", "user-1", "CRANE", 5, 6))

	mock.ExpectQuery(`SELECT \* FROM "game_players"`).
		WithArgs("game-1", "user-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "user_id", "attempts", "attempts_count", "has_won", "score"}).
			AddRow("game-1", "user-1", "[]", 0, false, 0))

	// No other unfinished players, so this guess finishes the game
	mock.ExpectQuery(`SELECT count\(\*\) FROM "game_players"`).
		WithArgs("game-1", "user-1", 6).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "game_players"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "word_games"`).
		WithArgs(sqlmock.AnyArg(), "natural_completion", "completed", "user-1", "game-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT "username" FROM "users"`).
		WithArgs("user-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/guess",
		[]byte(`{"gameId":"game-1","word":"crane"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isWinner":true`)
	assert.Contains(t, w.Body.String(), `"gameStatus":"completed"`)
	assert.Contains(t, w.Body.String(), `"attemptNumber":1`)
	assert.Contains(t, w.Body.String(), `"score":60`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndGameByCreatorRevealsWord(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("game-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "status", "created_by", "target_word"}).
			AddRow("game-1", "conv-1", "active", "user-1", "CRANE"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "word_games"`).
		WithArgs(sqlmock.AnyArg(), "ended_by_admin", "completed", "game-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/end",
		[]byte(`{"gameId":"game-1"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Game ended by admin")
	assert.Contains(t, w.Body.String(), "CRANE")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitGuessNotAPlayer(t *testing.T) {
	router, mock := setupGameRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "word_games"`).
		WithArgs("game-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "status", "created_by", "target_word", "word_length", "max_attempts"}).
			AddRow("game-1", "conv-1", "active", "user-1", "CRANE", 5, 6))

	mock.ExpectQuery(`SELECT \* FROM "game_players"`).
		WithArgs("game-1", "user-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/auth/games/guess",
		[]byte(`{"gameId":"game-1","word":"CRANE"}`)))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You are not a player in this game")
	assert.NoError(t, mock.ExpectationsWereMet())
}
