package controllers

import (
	"Wordlink/middleware"
	models "Wordlink/models/postgres"
	"Wordlink/utils"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Creates a conversation
// @Description Creates a group conversation (caller becomes admin) or a one-to-one conversation with another user
// @Tags chat
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{message=string,conversationId=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/conversations [post]
// @Security ApiKeyAuth
func CreateConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var body struct {
			Type           string   `json:"type"`
			Name           string   `json:"name"`
			ParticipantIDs []string `json:"participantIds"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		switch body.Type {
		case models.ConversationOneToOne:
			if len(body.ParticipantIDs) != 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "A one-to-one conversation needs exactly one other participant"})
				return
			}
			conversation, err := utils.FindOrCreateDirectConversation(db, userID, body.ParticipantIDs[0])
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating conversation"})
				return
			}
			c.JSON(http.StatusCreated, gin.H{
				"message":        "Conversation ready",
				"conversationId": conversation.ID,
			})

		case models.ConversationGroup:
			if strings.TrimSpace(body.Name) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Group conversations need a name"})
				return
			}

			conversation := models.Conversation{
				Type:      models.ConversationGroup,
				Name:      body.Name,
				CreatedBy: userID,
			}

			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&conversation).Error; err != nil {
					return err
				}
				participants := []*models.Participant{
					{ConversationID: conversation.ID, UserID: userID, Role: models.RoleAdmin, IsActive: true},
				}
				for _, participantID := range body.ParticipantIDs {
					if participantID == userID {
						continue
					}
					participants = append(participants, &models.Participant{
						ConversationID: conversation.ID,
						UserID:         participantID,
						Role:           models.RoleMember,
						IsActive:       true,
					})
				}
				return tx.Create(&participants).Error
			})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating conversation"})
				return
			}

			c.JSON(http.StatusCreated, gin.H{
				"message":        "Conversation created successfully",
				"conversationId": conversation.ID,
			})

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one-to-one or group"})
		}
	}
}

// @Summary Lists the caller's conversations
// @Description Returns all conversations where the caller is an active participant, most recently active first
// @Tags chat
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{conversationId=string,type=string,name=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/conversations [get]
// @Security ApiKeyAuth
func GetConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var conversations []models.Conversation
		err = db.
			Joins("JOIN participants ON participants.conversation_id = conversations.id").
			Where("participants.user_id = ? AND participants.is_active = true", userID).
			Order("conversations.last_message_at DESC NULLS LAST").
			Preload("Participants").
			Find(&conversations).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing conversations"})
			return
		}

		out := make([]gin.H, len(conversations))
		for i, conversation := range conversations {
			participants := make([]gin.H, 0, len(conversation.Participants))
			for _, p := range conversation.Participants {
				participants = append(participants, gin.H{
					"userId":   p.UserID,
					"role":     p.Role,
					"isActive": p.IsActive,
				})
			}
			out[i] = gin.H{
				"conversationId": conversation.ID,
				"type":           conversation.Type,
				"name":           conversation.Name,
				"participants":   participants,
				"lastMessage": gin.H{
					"content":   conversation.LastMessageContent,
					"senderId":  conversation.LastMessageSenderID,
					"timestamp": conversation.LastMessageAt,
				},
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Fetches message history
// @Description Returns a page of messages for a conversation, newest last. This is the pull-based delivery path for messages missed while offline
// @Tags chat
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param conversation_id path string true "Conversation id"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {array} object{senderId=string,content=string}
// @Failure 403 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/conversations/{conversation_id}/messages [get]
// @Security ApiKeyAuth
func GetMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conversationID := c.Param("conversation_id")

		isParticipant, err := utils.IsParticipant(db, userID, conversationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !isParticipant {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this conversation"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var messages []models.Message
		err = db.Where("conversation_id = ?", conversationID).
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&messages).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
			return
		}

		// Reverse so the page reads oldest to newest
		out := make([]gin.H, len(messages))
		for i := range messages {
			m := messages[len(messages)-1-i]
			out[i] = gin.H{
				"messageId":      m.ID,
				"conversationId": m.ConversationID,
				"senderId":       m.SenderID,
				"content":        m.Content,
				"messageType":    m.MessageType,
				"timestamp":      m.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Leaves a conversation
// @Description Marks the caller's participation inactive; message history stays attributable
// @Tags chat
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param conversation_id path string true "Conversation id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/conversations/{conversation_id}/leave [post]
// @Security ApiKeyAuth
func LeaveConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conversationID := c.Param("conversation_id")

		result := db.Model(&models.Participant{}).
			Where("conversation_id = ? AND user_id = ? AND is_active = true", conversationID, userID).
			Update("is_active", false)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leaving conversation"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "You are not a member of this conversation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Left conversation"})
	}
}
