package handlers

import (
	"Wordlink/utils"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function to handle the act of joining a group room. The membership check
// runs against the database on every call; an unauthorized join emits an
// error to the caller only, never to the room.
func HandleJoinGroup(client *socket.Socket, db *gorm.DB, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		conversationID := roomPayloadID(client, args, "conversationId")
		if conversationID == "" {
			return
		}

		log.Printf("[JOIN-GROUP] User: %s, Conversation: %s, Socket ID: %s", userID, conversationID, client.Id())

		if !utils.CheckParticipantOrEmit(db, client, userID, conversationID) {
			return
		}

		client.Join(socket.Room(utils.GroupRoom(conversationID)))
		client.Emit("joinedGroup", gin.H{"conversationId": conversationID})
	}
}

// Function to handle leaving a group room voluntarily.
func HandleLeaveGroup(client *socket.Socket, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		conversationID := roomPayloadID(client, args, "conversationId")
		if conversationID == "" {
			return
		}

		log.Printf("[LEAVE-GROUP] User: %s, Conversation: %s", userID, conversationID)
		client.Leave(socket.Room(utils.GroupRoom(conversationID)))
	}
}

// Function to handle joining the auxiliary game rooms. No authorization
// check happens at this layer: the game engine enforces participant checks
// on the actions that matter, and passive group viewers are allowed to
// follow game updates.
func HandleJoinGameRoom(client *socket.Socket, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing game room payload"})
			return
		}

		payload, ok := args[0].(map[string]interface{})
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid game room payload"})
			return
		}

		gameID, _ := payload["gameId"].(string)
		conversationID, _ := payload["conversationId"].(string)

		log.Printf("[JOIN-GAME-ROOM] User: %s, Game: %s, Conversation: %s", userID, gameID, conversationID)

		if gameID != "" {
			client.Join(socket.Room(utils.GameRoom(gameID)))
		}
		if conversationID != "" {
			client.Join(socket.Room(utils.GameConvRoom(conversationID)))
		}
	}
}

// Function to handle leaving the auxiliary game rooms.
func HandleLeaveGameRoom(client *socket.Socket, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			return
		}

		payload, ok := args[0].(map[string]interface{})
		if !ok {
			return
		}

		gameID, _ := payload["gameId"].(string)
		conversationID, _ := payload["conversationId"].(string)

		log.Printf("[LEAVE-GAME-ROOM] User: %s, Game: %s, Conversation: %s", userID, gameID, conversationID)

		if gameID != "" {
			client.Leave(socket.Room(utils.GameRoom(gameID)))
		}
		if conversationID != "" {
			client.Leave(socket.Room(utils.GameConvRoom(conversationID)))
		}
	}
}

func roomPayloadID(client *socket.Socket, args []interface{}, field string) string {
	if len(args) < 1 {
		client.Emit("error", gin.H{"error": "Missing room payload"})
		return ""
	}

	// Accept both {conversationId: "..."} objects and a bare id string
	if payload, ok := args[0].(map[string]interface{}); ok {
		id, _ := payload[field].(string)
		if id == "" {
			client.Emit("error", gin.H{"error": field + " is required"})
		}
		return id
	}
	if id, ok := args[0].(string); ok && id != "" {
		return id
	}

	client.Emit("error", gin.H{"error": "Invalid room payload"})
	return ""
}
