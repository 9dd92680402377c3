package handlers

import (
	"Wordlink/services/presence"
	socketio_types "Wordlink/services/socket_io/types"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle the register event. Registration is idempotent: it
// (re-)binds the displayable identity to the session and triggers a presence
// broadcast to every connected client.
func HandleRegister(registry *presence.Registry, client *socket.Socket,
	userID string, username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		displayName := username
		if len(args) >= 1 {
			if payload, ok := args[0].(map[string]interface{}); ok {
				if name, exists := payload["username"].(string); exists && name != "" {
					displayName = name
				}
			}
		}

		log.Printf("[REGISTER] User: %s (%s), Socket ID: %s", displayName, userID, client.Id())

		snapshot := registry.Register(userID, displayName, string(client.Id()))
		sio.BroadcastOnlineUsers(snapshot)
	}
}

// Function to handle socket.io client disconnections. The session leaves all
// its rooms implicitly; presence is unregistered for this session only, so a
// user with another tab open stays online.
func HandleDisconnecting(registry *presence.Registry, client *socket.Socket,
	userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] HandleDisconnecting started - User: %s, Socket ID: %s", userID, client.Id())

		snapshot, wentOffline := registry.Unregister(userID, string(client.Id()))
		if wentOffline {
			sio.RemoveConnection(userID)
		}
		sio.BroadcastOnlineUsers(snapshot)

		log.Printf("[DISCONNECT-DONE] User disconnected: %s (offline: %v)", userID, wentOffline)
	}
}
