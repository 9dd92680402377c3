package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Game statuses
const (
	GameWaiting   = "waiting"
	GameActive    = "active"
	GameCompleted = "completed"
	GameCancelled = "cancelled"
)

// Game end reasons
const (
	EndNaturalCompletion = "natural_completion"
	EndByAdmin           = "ended_by_admin"
	EndTimeout           = "timeout"
	EndCancelled         = "cancelled"
)

/*
 * 'WordGame' is one instance of the word-guessing mini-game, scoped to a
 * conversation. At most one game per conversation may be in the waiting or
 * active status at a time.
 */
type WordGame struct {
	ID             string `gorm:"primaryKey;size:36;not null"`
	ConversationID string `gorm:"size:36;not null;index:idx_word_games_conversation"`
	Status         string `gorm:"size:20;not null;default:waiting;index:idx_word_games_status"`
	CreatedBy      string `gorm:"size:36;not null"`
	TargetWord     string `gorm:"size:20;not null"`
	WordLength     int    `gorm:"default:5"`
	MaxAttempts    int    `gorm:"default:6"`
	// Stored per game but not enforced by any timer
	TimeLimit   int        `gorm:"default:300"`
	Winner      string     `gorm:"size:36"`
	StartedAt   *time.Time `gorm:""`
	CompletedAt *time.Time `gorm:""`
	EndReason   string     `gorm:"size:30;default:natural_completion"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Conversation Conversation  `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Creator      User          `gorm:"foreignKey:CreatedBy"`
	Players      []*GamePlayer `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (g *WordGame) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

/*
 * 'GamePlayer' represents the state of a player enrolled in a WordGame.
 * Attempts are kept as an append-only jsonb array; AttemptsCount is a
 * plain column so finish checks don't need to unmarshal the blob.
 */
type GamePlayer struct {
	// NOTE: composite primary key definition
	GameID        string         `gorm:"primaryKey;size:36;not null"`
	UserID        string         `gorm:"primaryKey;size:36;not null;index"`
	Attempts      datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	AttemptsCount int            `gorm:"default:0"`
	HasWon        bool           `gorm:"default:false"`
	Score         int            `gorm:"default:0"`
	JoinedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	CompletedAt   *time.Time     `gorm:""`

	// Relationship with the game and the user
	WordGame WordGame `gorm:"foreignKey:GameID"`
	User     User     `gorm:"foreignKey:UserID"`
}
