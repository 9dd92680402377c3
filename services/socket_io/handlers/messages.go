package handlers

import (
	models "Wordlink/models/postgres"
	socketio_types "Wordlink/services/socket_io/types"
	"Wordlink/utils"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function to handle a private one-to-one message. The message is persisted
// first (find-or-create the pair's conversation, append the message, stamp
// the denormalized last message), then delivered to the recipient's private
// room and echoed to the sender's private room so multi-tab senders see
// their own message. An offline recipient still gets the persisted message
// through the history fetch.
func HandlePrivateMessage(client *socket.Socket, db *gorm.DB,
	userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[PRIVATE] HandlePrivateMessage started - User: %s, Socket ID: %s", userID, client.Id())

		if len(args) < 1 {
			log.Printf("[PRIVATE-ERROR] Missing arguments for user %s", userID)
			client.Emit("error", gin.H{"error": "Missing message payload"})
			return
		}

		payload, ok := args[0].(map[string]interface{})
		if !ok {
			log.Printf("[PRIVATE-ERROR] Invalid argument type for user %s. Expected map[string]interface{}, got %T", userID, args[0])
			client.Emit("error", gin.H{"error": "Invalid message payload"})
			return
		}

		receiverID, _ := payload["receiverId"].(string)
		message, _ := payload["message"].(string)
		if receiverID == "" || message == "" {
			client.Emit("error", gin.H{"error": "receiverId and message are required"})
			return
		}

		conversation, err := utils.FindOrCreateDirectConversation(db, userID, receiverID)
		if err != nil {
			log.Printf("[PRIVATE-ERROR] Error resolving conversation: %v", err)
			client.Emit("error", gin.H{"error": "Error storing message"})
			return
		}

		stored, err := utils.StoreMessage(db, conversation.ID, userID, message, models.MessageText)
		if err != nil {
			log.Printf("[PRIVATE-ERROR] Error storing message: %v", err)
			client.Emit("error", gin.H{"error": "Error storing message"})
			return
		}

		out := gin.H{
			"senderId":       userID,
			"receiverId":     receiverID,
			"conversationId": conversation.ID,
			"content":        stored.Content,
			"timestamp":      stored.CreatedAt,
		}

		// Deliver to the recipient's private room and echo to the sender's
		sio.EmitToPrivateRoom(receiverID, "privateMessage", out)
		sio.EmitToPrivateRoom(userID, "privateMessage", out)

		log.Printf("[PRIVATE-SUCCESS] Message %s stored in conversation %s", stored.ID, conversation.ID)
	}
}

// Function to handle a group message. Membership is re-checked on every
// event (participants can be removed between connection and send); the
// message is persisted and then broadcast to the group room.
func HandleGroupMessage(client *socket.Socket, db *gorm.DB,
	userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[GROUP] HandleGroupMessage started - User: %s, Socket ID: %s", userID, client.Id())

		if len(args) < 1 {
			log.Printf("[GROUP-ERROR] Missing arguments for user %s", userID)
			client.Emit("error", gin.H{"error": "Missing message payload"})
			return
		}

		payload, ok := args[0].(map[string]interface{})
		if !ok {
			log.Printf("[GROUP-ERROR] Invalid argument type for user %s. Expected map[string]interface{}, got %T", userID, args[0])
			client.Emit("error", gin.H{"error": "Invalid message payload"})
			return
		}

		conversationID, _ := payload["conversationId"].(string)
		message, _ := payload["message"].(string)
		messageType, _ := payload["messageType"].(string)
		if conversationID == "" || message == "" {
			client.Emit("error", gin.H{"error": "conversationId and message are required"})
			return
		}

		if !utils.CheckParticipantOrEmit(db, client, userID, conversationID) {
			return
		}

		stored, err := utils.StoreMessage(db, conversationID, userID, message, messageType)
		if err != nil {
			log.Printf("[GROUP-ERROR] Error storing message: %v", err)
			client.Emit("error", gin.H{"error": "Error storing message"})
			return
		}

		sio.Sio_server.To(socket.Room(utils.GroupRoom(conversationID))).Emit("groupMessage", gin.H{
			"conversationId": conversationID,
			"senderId":       userID,
			"message":        stored.Content,
			"messageType":    stored.MessageType,
			"timestamp":      stored.CreatedAt,
		})

		log.Printf("[GROUP-SUCCESS] Message %s broadcast to conversation %s", stored.ID, conversationID)
	}
}

// Function to handle typing indicators. Ephemeral: nothing is persisted.
// Group indicators go to the group room; one-to-one indicators go to the
// other participant's private room.
func HandleTyping(client *socket.Socket, db *gorm.DB,
	userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing typing payload"})
			return
		}

		payload, ok := args[0].(map[string]interface{})
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid typing payload"})
			return
		}

		conversationID, _ := payload["conversationId"].(string)
		isTyping, _ := payload["isTyping"].(bool)
		conversationType, _ := payload["conversationType"].(string)
		if conversationID == "" {
			client.Emit("error", gin.H{"error": "conversationId is required"})
			return
		}

		out := gin.H{
			"conversationId":   conversationID,
			"userId":           userID,
			"isTyping":         isTyping,
			"conversationType": conversationType,
			"timestamp":        time.Now(),
		}

		if conversationType == models.ConversationGroup {
			sio.Sio_server.To(socket.Room(utils.GroupRoom(conversationID))).Emit("typing", out)
			return
		}

		// One-to-one: there is no conversation room, deliver to the other
		// participant's private room
		var participantIDs []string
		err := db.Model(&models.Participant{}).
			Where("conversation_id = ? AND user_id <> ?", conversationID, userID).
			Pluck("user_id", &participantIDs).Error
		if err != nil {
			log.Printf("[TYPING-ERROR] Error resolving participants: %v", err)
			return
		}

		for _, participantID := range participantIDs {
			sio.EmitToPrivateRoom(participantID, "typing", out)
		}
	}
}
