package utils

import (
	"fmt"

	models "Wordlink/models/postgres"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to check if a conversation exists
func CheckConversationExists(db *gorm.DB, conversationID string) (*models.Conversation, error) {
	var conversation models.Conversation
	result := db.Where("id = ?", conversationID).First(&conversation)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("conversation not found")
		}
		return nil, result.Error
	}

	return &conversation, nil
}

// IsParticipant reports whether the user is an active participant of the
// conversation. Called on every inbound group-scoped event, never cached:
// membership can change between connection and event.
func IsParticipant(db *gorm.DB, userID string, conversationID string) (bool, error) {
	var count int64
	err := db.Model(&models.Participant{}).
		Where("conversation_id = ? AND user_id = ? AND is_active = true", conversationID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// IsAdmin reports whether the user is an active admin of the conversation.
func IsAdmin(db *gorm.DB, userID string, conversationID string) (bool, error) {
	var count int64
	err := db.Model(&models.Participant{}).
		Where("conversation_id = ? AND user_id = ? AND role = ? AND is_active = true",
			conversationID, userID, models.RoleAdmin).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ResolveGroupRooms returns the ids of all group conversations where the
// user is an active participant. Used once at connection time to pre-join
// the session to its group rooms.
func ResolveGroupRooms(db *gorm.DB, userID string) ([]string, error) {
	var conversationIDs []string
	err := db.Model(&models.Participant{}).
		Joins("JOIN conversations ON conversations.id = participants.conversation_id").
		Where("participants.user_id = ? AND participants.is_active = true AND conversations.type = ?",
			userID, models.ConversationGroup).
		Pluck("participants.conversation_id", &conversationIDs).Error

	if err != nil {
		return nil, err
	}

	return conversationIDs, nil
}

// CheckParticipantOrEmit runs the participant check and emits an error event
// to the calling session when it fails. The error is never broadcast.
func CheckParticipantOrEmit(db *gorm.DB, client *socket.Socket, userID, conversationID string) bool {
	isParticipant, err := IsParticipant(db, userID, conversationID)
	if err != nil {
		fmt.Println("Database error:", err)
		client.Emit("error", gin.H{"error": "Database error"})
		return false
	}

	if !isParticipant {
		fmt.Println("User is NOT a participant:", userID, "Conversation:", conversationID)
		client.Emit("error", gin.H{"error": "You are not a member of this conversation"})
		return false
	}

	return true
}
