package routes

import (
	"Wordlink/controllers"
	"Wordlink/middleware"
	"Wordlink/services/redis"
	socketio_types "Wordlink/services/socket_io/types"
	gamesync "Wordlink/sync"
	utils "Wordlink/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	sio *socketio_types.SocketServer, syncManager *gamesync.SyncManager) {

	// Game controller, shared by all game routes
	gameController := &controllers.GameController{
		DB:          db,
		Sio:         sio,
		SyncManager: syncManager,
	}

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/users/:username", controllers.GetUserPublicInfo(db))

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.GET("/me", controllers.GetUserPrivateInfo(db))

		authentication.GET("/online-users", controllers.GetOnlineUsers(redisClient))

		authentication.POST("/conversations", controllers.CreateConversation(db))

		authentication.GET("/conversations", controllers.GetConversations(db))

		authentication.GET("/conversations/:conversation_id/messages", controllers.GetMessages(db))

		authentication.POST("/conversations/:conversation_id/leave", controllers.LeaveConversation(db))

		authentication.GET("/conversations/:conversation_id/active-game", gameController.GetActiveGame)

		authentication.POST("/invitations", controllers.CreateInvitation(db))

		authentication.POST("/invitations/:token/accept", controllers.AcceptInvitation(db))

		authentication.POST("/games", gameController.CreateGame)

		authentication.POST("/games/join", gameController.JoinGame)

		authentication.POST("/games/start", gameController.StartGame)

		authentication.POST("/games/end", gameController.EndGame)

		authentication.POST("/games/guess", gameController.SubmitGuess)

		authentication.GET("/games/:game_id", gameController.GetGame)
	}
}
