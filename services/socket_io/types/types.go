package socketio_types

import (
	"Wordlink/utils"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// It is used to handle socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track userID -> socket connections (last connection wins for
	// direct lookups; room membership covers multi-tab delivery)
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(userID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[userID] = client
}

func (s *SocketServer) RemoveConnection(userID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, userID)
}

// GameEvent is the envelope broadcast for every word-game domain event.
type GameEvent struct {
	GameID         string      `json:"gameId"`
	ConversationID string      `json:"conversationId"`
	Event          string      `json:"event"`
	Data           interface{} `json:"data"`
	Timestamp      time.Time   `json:"timestamp"`
}

// EmitGameEvent fans a game event out to the game room (players following
// the game) and the gameConv room (passive viewers of the conversation).
func (s *SocketServer) EmitGameEvent(event GameEvent) {
	if s.Sio_server == nil {
		return
	}
	s.Sio_server.To(socket.Room(utils.GameRoom(event.GameID))).Emit("gameEvent", event)
	s.Sio_server.To(socket.Room(utils.GameConvRoom(event.ConversationID))).Emit("gameUpdate", event)
}

// BroadcastOnlineUsers pushes the full presence snapshot to every connected
// session. Deliberately global: every registry mutation refreshes all
// clients' online lists.
func (s *SocketServer) BroadcastOnlineUsers(snapshot interface{}) {
	if s.Sio_server == nil {
		return
	}
	s.Sio_server.Emit("online-users", snapshot)
}

// EmitToPrivateRoom delivers an event to every session a user has open.
func (s *SocketServer) EmitToPrivateRoom(userID string, event string, payload gin.H) {
	if s.Sio_server == nil {
		return
	}
	s.Sio_server.To(socket.Room(utils.PrivateRoom(userID))).Emit(event, payload)
}
