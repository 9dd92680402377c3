package utils

import (
	"time"

	models "Wordlink/models/postgres"

	"gorm.io/gorm"
)

// FindOrCreateDirectConversation returns the one-to-one conversation between
// the two users, creating it (with both participants) when none exists yet.
// A one-to-one conversation always has exactly two participants.
func FindOrCreateDirectConversation(db *gorm.DB, senderID, receiverID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := db.
		Joins("JOIN participants p1 ON p1.conversation_id = conversations.id AND p1.user_id = ?", senderID).
		Joins("JOIN participants p2 ON p2.conversation_id = conversations.id AND p2.user_id = ?", receiverID).
		Where("conversations.type = ?", models.ConversationOneToOne).
		First(&conversation).Error

	if err == nil {
		return &conversation, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	conversation = models.Conversation{
		Type:      models.ConversationOneToOne,
		CreatedBy: senderID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		participants := []*models.Participant{
			{ConversationID: conversation.ID, UserID: senderID, Role: models.RoleMember, IsActive: true},
			{ConversationID: conversation.ID, UserID: receiverID, Role: models.RoleMember, IsActive: true},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

// StoreMessage persists a message and stamps the denormalized last-message
// pointer on the conversation, both inside one transaction.
func StoreMessage(db *gorm.DB, conversationID, senderID, content, messageType string) (*models.Message, error) {
	if messageType == "" {
		messageType = models.MessageText
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    messageType,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"last_message_content":   content,
				"last_message_sender_id": senderID,
				"last_message_at":        now,
				"updated_at":             now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}
