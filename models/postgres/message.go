package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message types
const (
	MessageText   = "text"
	MessageImage  = "image"
	MessageFile   = "file"
	MessageSystem = "system"
)

/*
 * 'Message' is a persisted chat message. Messages are append-only; the core
 * never mutates them after creation.
 */
type Message struct {
	ID             string    `gorm:"primaryKey;size:36;not null"`
	ConversationID string    `gorm:"size:36;not null;index:idx_messages_conversation"`
	SenderID       string    `gorm:"size:36;not null"`
	Content        string    `gorm:"size:2000;not null"`
	MessageType    string    `gorm:"size:20;not null;default:text"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP;index"`

	// Relationships
	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Sender       User         `gorm:"foreignKey:SenderID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
