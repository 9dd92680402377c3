package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'GroupInvitation' is a shareable invitation link for a group conversation.
 * Accepting a valid token adds the caller as an active member.
 */
type GroupInvitation struct {
	Token          string    `gorm:"primaryKey;size:36;not null"`
	ConversationID string    `gorm:"size:36;not null;index"`
	CreatedBy      string    `gorm:"size:36;not null"`
	ExpiresAt      time.Time `gorm:"not null"`
	Used           bool      `gorm:"default:false"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Creator      User         `gorm:"foreignKey:CreatedBy"`
}

func (i *GroupInvitation) BeforeCreate(tx *gorm.DB) (err error) {
	if i.Token == "" {
		i.Token = uuid.NewString()
	}
	return nil
}
