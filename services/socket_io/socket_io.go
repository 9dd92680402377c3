package socket_io

import (
	"Wordlink/services/presence"
	"Wordlink/services/redis"
	"Wordlink/services/socket_io/handlers"
	"Wordlink/utils"

	socketio_types "Wordlink/services/socket_io/types"
	socketio_utils "Wordlink/services/socket_io/utils"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB,
	redisClient *redis.RedisClient, registry *presence.Registry) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, userID, username := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		// Add connection to map
		(*socketio_types.SocketServer)(sio).AddConnection(userID, client)

		log.Printf("[CONNECT] User connected: %s (%s), Socket ID: %s", username, userID, client.Id())

		// Every session joins its own private room so multi-tab delivery
		// works through normal room fan-out
		client.Join(socket.Room(utils.PrivateRoom(userID)))

		// Pre-join the session to all its active group rooms
		groupRooms, err := utils.ResolveGroupRooms(db, userID)
		if err != nil {
			log.Printf("[CONNECT-ERROR] Error resolving group rooms for %s: %v", userID, err)
		} else {
			for _, conversationID := range groupRooms {
				client.Join(socket.Room(utils.GroupRoom(conversationID)))
			}
			log.Printf("[CONNECT] User %s pre-joined to %d group rooms", userID, len(groupRooms))
		}

		// Register presence and push the refreshed online list to everyone
		snapshot := registry.Register(userID, username, string(client.Id()))
		(*socketio_types.SocketServer)(sio).BroadcastOnlineUsers(snapshot)

		// Bind a displayable identity to the session (idempotent)
		client.On("register", handlers.HandleRegister(registry, client, userID, username,
			(*socketio_types.SocketServer)(sio)))

		// One-to-one message: persist, deliver to recipient, echo to sender
		client.On("privateMessage", handlers.HandlePrivateMessage(client, db, userID,
			(*socketio_types.SocketServer)(sio)))

		// Group message: membership check, persist, broadcast to the group room
		client.On("groupMessage", handlers.HandleGroupMessage(client, db, userID,
			(*socketio_types.SocketServer)(sio)))

		// Join/leave a group room explicitly
		client.On("joinGroup", handlers.HandleJoinGroup(client, db, userID))
		client.On("leaveGroup", handlers.HandleLeaveGroup(client, userID))

		// Ephemeral typing indicators
		client.On("typing", handlers.HandleTyping(client, db, userID,
			(*socketio_types.SocketServer)(sio)))

		// Game event fan-out rooms, joined explicitly by clients following a game
		client.On("joinGameRoom", handlers.HandleJoinGameRoom(client, userID))
		client.On("leaveGameRoom", handlers.HandleLeaveGameRoom(client, userID))

		// NOTE: will remove sio connection from map and unregister presence
		client.On("disconnecting", handlers.HandleDisconnecting(registry, client, userID,
			(*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
