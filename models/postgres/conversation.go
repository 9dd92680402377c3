package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation types
const (
	ConversationOneToOne = "one-to-one"
	ConversationGroup    = "group"
)

// Participant roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

/*
 * 'Conversation' is a persisted chat thread, either one-to-one or group.
 * Only group conversations carry a name. The last message is denormalized
 * onto the conversation so conversation lists can be ordered without a join.
 */
type Conversation struct {
	ID        string    `gorm:"primaryKey;size:36;not null"`
	Type      string    `gorm:"size:20;not null;index:idx_conversations_type"`
	Name      string    `gorm:"size:100"` // group conversations only
	CreatedBy string    `gorm:"size:36;not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Denormalized pointer to the most recent message
	LastMessageContent  string     `gorm:"size:2000"`
	LastMessageSenderID string     `gorm:"size:36"`
	LastMessageAt       *time.Time `gorm:""`

	// Relationships
	Creator      User           `gorm:"foreignKey:CreatedBy"`
	Participants []*Participant `gorm:"foreignKey:ConversationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

/*
 * 'Participant' is a user's membership record within a Conversation.
 * Removed members are kept with IsActive=false so message history stays
 * attributable.
 */
type Participant struct {
	// NOTE: composite primary key definition
	ConversationID string    `gorm:"primaryKey;size:36;not null"`
	UserID         string    `gorm:"primaryKey;size:36;not null;index"`
	Role           string    `gorm:"size:20;not null;default:member"`
	JoinedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	IsActive       bool      `gorm:"default:true"`

	// Relationship with the conversation and the user
	Conversation Conversation `gorm:"foreignKey:ConversationID"`
	User         User         `gorm:"foreignKey:UserID"`
}
