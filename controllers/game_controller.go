package controllers

import (
	game_constants "Wordlink/constants/game"
	"Wordlink/middleware"
	models "Wordlink/models/postgres"
	socketio_types "Wordlink/services/socket_io/types"
	"Wordlink/services/wordgame"
	gamesync "Wordlink/sync"
	"Wordlink/utils"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameController carries the word-game dependencies: the durable store, the
// socket server for event fan-out and the per-game lock manager that
// serializes concurrent mutations on the same game.
type GameController struct {
	DB          *gorm.DB
	Sio         *socketio_types.SocketServer
	SyncManager *gamesync.SyncManager
}

func (gc *GameController) emit(event string, gameID, conversationID string, data gin.H) {
	if gc.Sio == nil {
		return
	}
	gc.Sio.EmitGameEvent(socketio_types.GameEvent{
		GameID:         gameID,
		ConversationID: conversationID,
		Event:          event,
		Data:           data,
		Timestamp:      time.Now(),
	})
}

// @Summary Creates a word game
// @Description Creates a game in a conversation; every active participant is enrolled as a player
// @Tags game
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{message=string,game=object}
// @Failure 400 {object} object{message=string}
// @Failure 403 {object} object{message=string}
// @Router /auth/games [post]
// @Security ApiKeyAuth
func (gc *GameController) CreateGame(c *gin.Context) {
	userID, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var body struct {
		ConversationID string `json:"conversationId"`
		TargetWord     string `json:"targetWord"`
		WordLength     int    `json:"wordLength"`
		MaxAttempts    int    `json:"maxAttempts"`
		TimeLimit      int    `json:"timeLimit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ConversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Conversation ID is required"})
		return
	}
	if body.WordLength == 0 {
		body.WordLength = game_constants.DefaultWordLength
	}
	if body.MaxAttempts == 0 {
		body.MaxAttempts = game_constants.DefaultMaxAttempts
	}
	if body.TimeLimit == 0 {
		body.TimeLimit = game_constants.DefaultTimeLimit
	}

	isParticipant, err := utils.IsParticipant(gc.DB, userID, body.ConversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating word game"})
		return
	}
	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not a member of this conversation"})
		return
	}

	// At most one waiting/active game per conversation
	var activeCount int64
	err = gc.DB.Model(&models.WordGame{}).
		Where("conversation_id = ? AND status IN ?", body.ConversationID,
			[]string{models.GameWaiting, models.GameActive}).
		Count(&activeCount).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating word game"})
		return
	}
	if activeCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "There's already an active game in this group"})
		return
	}

	// Use provided word or pick a random one
	word := wordgame.NormalizeWord(body.TargetWord)
	if word == "" {
		word = wordgame.RandomWord()
	}
	if len(word) != body.WordLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Word must be exactly the configured length"})
		return
	}

	// Auto-join: every active participant becomes a player at creation time
	var participants []models.Participant
	err = gc.DB.Where("conversation_id = ? AND is_active = true", body.ConversationID).
		Find(&participants).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating word game"})
		return
	}

	game := models.WordGame{
		ConversationID: body.ConversationID,
		Status:         models.GameWaiting,
		CreatedBy:      userID,
		TargetWord:     word,
		WordLength:     body.WordLength,
		MaxAttempts:    body.MaxAttempts,
		TimeLimit:      body.TimeLimit,
	}

	err = gc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		players := make([]*models.GamePlayer, 0, len(participants))
		for _, p := range participants {
			players = append(players, &models.GamePlayer{
				GameID:   game.ID,
				UserID:   p.UserID,
				Attempts: []byte("[]"),
			})
		}
		return tx.Create(&players).Error
	})
	if err != nil {
		log.Printf("[GAME-ERROR] Error creating game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating word game"})
		return
	}

	gc.emit(game_constants.EventGameCreated, game.ID, game.ConversationID, gin.H{
		"gameId":         game.ID,
		"conversationId": game.ConversationID,
		"status":         game.Status,
		"createdBy":      userID,
		"playersCount":   len(participants),
		"wordLength":     game.WordLength,
		"maxAttempts":    game.MaxAttempts,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Word game created successfully",
		"game": gin.H{
			"gameId":         game.ID,
			"conversationId": game.ConversationID,
			"status":         game.Status,
			"wordLength":     game.WordLength,
			"maxAttempts":    game.MaxAttempts,
			"timeLimit":      game.TimeLimit,
			"createdBy":      userID,
			"playersCount":   len(participants),
		},
	})
}

// @Summary Joins a waiting game
// @Description No-op success for already-enrolled players; otherwise requires conversation membership
// @Tags game
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,playersCount=integer}
// @Failure 400 {object} object{message=string}
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /auth/games/join [post]
// @Security ApiKeyAuth
func (gc *GameController) JoinGame(c *gin.Context) {
	userID, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var body struct {
		GameID string `json:"gameId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.GameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Game ID is required"})
		return
	}

	err = gc.SyncManager.WithGameLock(body.GameID, func() error {
		var game models.WordGame
		if err := gc.DB.Where("id = ?", body.GameID).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
				return nil
			}
			return err
		}

		if game.Status != models.GameWaiting {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Game is not accepting new players"})
			return nil
		}

		var playersCount int64
		if err := gc.DB.Model(&models.GamePlayer{}).Where("game_id = ?", game.ID).Count(&playersCount).Error; err != nil {
			return err
		}

		// Already enrolled: success, no duplicate player entry
		var enrolled int64
		if err := gc.DB.Model(&models.GamePlayer{}).
			Where("game_id = ? AND user_id = ?", game.ID, userID).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled > 0 {
			c.JSON(http.StatusOK, gin.H{
				"message":      "You are already in this game",
				"playersCount": playersCount,
			})
			return nil
		}

		isParticipant, err := utils.IsParticipant(gc.DB, userID, game.ConversationID)
		if err != nil {
			return err
		}
		if !isParticipant {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not a member of this conversation"})
			return nil
		}

		player := models.GamePlayer{
			GameID:   game.ID,
			UserID:   userID,
			Attempts: []byte("[]"),
		}
		if err := gc.DB.Create(&player).Error; err != nil {
			return err
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Joined game successfully",
			"playersCount": playersCount + 1,
		})
		return nil
	})
	if err != nil {
		log.Printf("[GAME-ERROR] Error joining game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error joining word game"})
	}
}

// @Summary Starts a game
// @Description Creator-only; transitions waiting to active
// @Tags game
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,startedAt=string}
// @Failure 400 {object} object{message=string}
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /auth/games/start [post]
// @Security ApiKeyAuth
func (gc *GameController) StartGame(c *gin.Context) {
	userID, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var body struct {
		GameID string `json:"gameId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.GameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Game ID is required"})
		return
	}

	err = gc.SyncManager.WithGameLock(body.GameID, func() error {
		var game models.WordGame
		if err := gc.DB.Where("id = ?", body.GameID).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
				return nil
			}
			return err
		}

		// Only the creator can start the game
		if game.CreatedBy != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Only the game creator can start the game"})
			return nil
		}

		if game.Status != models.GameWaiting {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Game cannot be started"})
			return nil
		}

		now := time.Now()
		err := gc.DB.Model(&models.WordGame{}).
			Where("id = ?", game.ID).
			Updates(map[string]interface{}{
				"status":     models.GameActive,
				"started_at": now,
			}).Error
		if err != nil {
			return err
		}

		gc.emit(game_constants.EventGameStarted, game.ID, game.ConversationID, gin.H{
			"gameId":    game.ID,
			"status":    models.GameActive,
			"startedAt": now,
		})

		c.JSON(http.StatusOK, gin.H{
			"message":   "Game started successfully",
			"startedAt": now,
		})
		return nil
	})
	if err != nil {
		log.Printf("[GAME-ERROR] Error starting game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error starting word game"})
	}
}

// @Summary Submits a guess
// @Description Evaluates the guess, appends the attempt and completes the game once every player has finished
// @Tags game
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,result=array,isWinner=bool,attemptNumber=integer,attemptsLeft=integer,gameStatus=string,score=integer}
// @Failure 400 {object} object{message=string}
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /auth/games/guess [post]
// @Security ApiKeyAuth
func (gc *GameController) SubmitGuess(c *gin.Context) {
	userID, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var body struct {
		GameID string `json:"gameId"`
		Word   string `json:"word"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.GameID == "" || body.Word == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Game ID and word are required"})
		return
	}

	// Serialized per game: two guesses from the same player can't race past
	// the attempt-count guard
	gameFinished := false
	err = gc.SyncManager.WithGameLock(body.GameID, func() error {
		var game models.WordGame
		if err := gc.DB.Where("id = ?", body.GameID).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
				return nil
			}
			return err
		}

		if game.Status != models.GameActive {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Game is not active"})
			return nil
		}

		var player models.GamePlayer
		if err := gc.DB.Where("game_id = ? AND user_id = ?", game.ID, userID).First(&player).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusForbidden, gin.H{"message": "You are not a player in this game"})
				return nil
			}
			return err
		}

		if player.HasWon {
			c.JSON(http.StatusBadRequest, gin.H{"message": "You have already won this game"})
			return nil
		}
		if player.AttemptsCount >= game.MaxAttempts {
			c.JSON(http.StatusBadRequest, gin.H{"message": "You have reached the maximum number of attempts"})
			return nil
		}

		guessWord := wordgame.NormalizeWord(body.Word)
		if len(guessWord) != game.WordLength {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Word must be exactly the configured length"})
			return nil
		}

		result, err := wordgame.EvaluateGuess(guessWord, game.TargetWord)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guess"})
			return nil
		}

		var attempts []wordgame.Attempt
		if err := json.Unmarshal(player.Attempts, &attempts); err != nil {
			return err
		}

		now := time.Now()
		attemptNumber := player.AttemptsCount + 1
		attempts = append(attempts, wordgame.Attempt{
			Word:          guessWord,
			Result:        result,
			AttemptNumber: attemptNumber,
			Timestamp:     now,
		})
		attemptsJSON, err := json.Marshal(attempts)
		if err != nil {
			return err
		}

		isWinner := guessWord == game.TargetWord
		playerUpdates := map[string]interface{}{
			"attempts":       datatypes.JSON(attemptsJSON),
			"attempts_count": attemptNumber,
		}
		score := player.Score
		if isWinner {
			score = wordgame.WinScore(game.MaxAttempts, attemptNumber)
			playerUpdates["has_won"] = true
			playerUpdates["completed_at"] = now
			playerUpdates["score"] = score
		}

		// A game completes when every player has either won or exhausted
		// their attempts
		var unfinished int64
		err = gc.DB.Model(&models.GamePlayer{}).
			Where("game_id = ? AND user_id <> ? AND has_won = false AND attempts_count < ?",
				game.ID, userID, game.MaxAttempts).
			Count(&unfinished).Error
		if err != nil {
			return err
		}
		callerFinished := isWinner || attemptNumber >= game.MaxAttempts
		allPlayersFinished := callerFinished && unfinished == 0

		gameStatus := game.Status
		err = gc.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.GamePlayer{}).
				Where("game_id = ? AND user_id = ?", game.ID, userID).
				Updates(playerUpdates).Error; err != nil {
				return err
			}

			gameUpdates := map[string]interface{}{}
			if isWinner && game.Winner == "" {
				gameUpdates["winner"] = userID
			}
			if allPlayersFinished {
				gameUpdates["status"] = models.GameCompleted
				gameUpdates["end_reason"] = models.EndNaturalCompletion
				gameUpdates["completed_at"] = now
				gameStatus = models.GameCompleted
			}
			if len(gameUpdates) > 0 {
				return tx.Model(&models.WordGame{}).Where("id = ?", game.ID).Updates(gameUpdates).Error
			}
			return nil
		})
		if err != nil {
			return err
		}

		username := utils.UsernameByID(gc.DB, userID)
		gc.emit(game_constants.EventGuessMade, game.ID, game.ConversationID, gin.H{
			"gameId": game.ID,
			"player": gin.H{"username": username, "userId": userID},
			"guess": gin.H{
				"word":          guessWord,
				"result":        result,
				"attemptNumber": attemptNumber,
				"isWinner":      isWinner,
				"attemptsLeft":  game.MaxAttempts - attemptNumber,
			},
			"gameStatus":         gameStatus,
			"allPlayersFinished": allPlayersFinished,
		})

		if isWinner {
			gc.emit(game_constants.EventPlayerWon, game.ID, game.ConversationID, gin.H{
				"gameId": game.ID,
				"winner": gin.H{
					"username": username,
					"userId":   userID,
					"score":    score,
					"attempts": attemptNumber,
				},
				"gameStatus": gameStatus,
			})
		}

		gameFinished = allPlayersFinished

		message := "Guess submitted"
		if isWinner {
			message = "Congratulations! You won!"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       message,
			"result":        result,
			"isWinner":      isWinner,
			"attemptNumber": attemptNumber,
			"attemptsLeft":  game.MaxAttempts - attemptNumber,
			"gameStatus":    gameStatus,
			"score":         score,
		})
		return nil
	})
	if err != nil {
		log.Printf("[GAME-ERROR] Error submitting guess: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error submitting guess"})
		return
	}

	// Evict the lock entry only after the lock has been released; dropping
	// it while held would let a waiter and a fresh caller run concurrently
	if gameFinished {
		gc.SyncManager.ReleaseGame(body.GameID)
	}
}

// @Summary Ends a game
// @Description Creator-only; forces completion and reveals the target word
// @Tags game
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,targetWord=string}
// @Failure 400 {object} object{message=string}
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /auth/games/end [post]
// @Security ApiKeyAuth
func (gc *GameController) EndGame(c *gin.Context) {
	userID, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var body struct {
		GameID string `json:"gameId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.GameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Game ID is required"})
		return
	}

	ended := false
	err = gc.SyncManager.WithGameLock(body.GameID, func() error {
		var game models.WordGame
		if err := gc.DB.Where("id = ?", body.GameID).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
				return nil
			}
			return err
		}

		// Only the creator can end the game
		if game.CreatedBy != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Only the game creator can end the game"})
			return nil
		}

		if game.Status == models.GameCompleted || game.Status == models.GameCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Game is already completed"})
			return nil
		}

		now := time.Now()
		err := gc.DB.Model(&models.WordGame{}).
			Where("id = ?", game.ID).
			Updates(map[string]interface{}{
				"status":       models.GameCompleted,
				"end_reason":   models.EndByAdmin,
				"completed_at": now,
			}).Error
		if err != nil {
			return err
		}

		gc.emit(game_constants.EventGameEnded, game.ID, game.ConversationID, gin.H{
			"gameId":      game.ID,
			"status":      models.GameCompleted,
			"endReason":   models.EndByAdmin,
			"targetWord":  game.TargetWord,
			"completedAt": now,
		})

		ended = true

		c.JSON(http.StatusOK, gin.H{
			"message":     "Game ended by admin",
			"completedAt": now,
			"targetWord":  game.TargetWord,
		})
		return nil
	})
	if err != nil {
		log.Printf("[GAME-ERROR] Error ending game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error ending word game"})
		return
	}

	// Evicted outside the lock, same reasoning as SubmitGuess
	if ended {
		gc.SyncManager.ReleaseGame(body.GameID)
	}
}

// @Summary Gets a game
// @Description Returns the game summary. Attempts are visible only to the requesting player; the target word only once completed
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{gameId=string,status=string}
// @Failure 404 {object} object{message=string}
// @Router /auth/games/{game_id} [get]
// @Security ApiKeyAuth
func (gc *GameController) GetGame(c *gin.Context) {
	userID, err := middleware.JWT_decoder(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	gameID := c.Param("game_id")

	var game models.WordGame
	err = gc.DB.Preload("Players").Where("id = ?", gameID).First(&game).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error getting word game"})
		}
		return
	}

	players := make([]gin.H, 0, len(game.Players))
	var myAttempts []wordgame.Attempt
	isPlayer := false
	for _, p := range game.Players {
		players = append(players, gin.H{
			"userId":        p.UserID,
			"username":      utils.UsernameByID(gc.DB, p.UserID),
			"hasWon":        p.HasWon,
			"attemptsCount": p.AttemptsCount,
			"score":         p.Score,
			"completedAt":   p.CompletedAt,
		})
		if p.UserID == userID {
			isPlayer = true
			if err := json.Unmarshal(p.Attempts, &myAttempts); err != nil {
				log.Printf("[GAME-ERROR] Error unmarshaling attempts for %s: %v", p.UserID, err)
			}
		}
	}

	response := gin.H{
		"gameId":         game.ID,
		"conversationId": game.ConversationID,
		"status":         game.Status,
		"wordLength":     game.WordLength,
		"maxAttempts":    game.MaxAttempts,
		"timeLimit":      game.TimeLimit,
		"createdBy":      game.CreatedBy,
		"playersCount":   len(game.Players),
		"players":        players,
		"startedAt":      game.StartedAt,
		"completedAt":    game.CompletedAt,
		"winner":         game.Winner,
	}

	// Only show attempts to the player themselves
	if isPlayer {
		if myAttempts == nil {
			myAttempts = []wordgame.Attempt{}
		}
		response["myAttempts"] = myAttempts
	}

	// Only show the target word once the game is completed
	if game.Status == models.GameCompleted {
		response["targetWord"] = game.TargetWord
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Gets the active game of a conversation
// @Description Returns the waiting or active game for a conversation, if any
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param conversation_id path string true "Conversation id"
// @Success 200 {object} object{gameId=string,status=string}
// @Failure 404 {object} object{message=string}
// @Router /auth/conversations/{conversation_id}/active-game [get]
// @Security ApiKeyAuth
func (gc *GameController) GetActiveGame(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	var game models.WordGame
	err := gc.DB.Where("conversation_id = ? AND status IN ?", conversationID,
		[]string{models.GameWaiting, models.GameActive}).
		First(&game).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "No active game found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error getting active game"})
		}
		return
	}

	var playersCount int64
	gc.DB.Model(&models.GamePlayer{}).Where("game_id = ?", game.ID).Count(&playersCount)

	c.JSON(http.StatusOK, gin.H{
		"gameId":       game.ID,
		"status":       game.Status,
		"createdBy":    game.CreatedBy,
		"playersCount": playersCount,
	})
}
