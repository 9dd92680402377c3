package controllers

import (
	"Wordlink/middleware"
	models "Wordlink/models/postgres"
	"Wordlink/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Issues a group invitation
// @Description Admin-only; returns a shareable token for joining the group
// @Tags invitation
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{token=string,expiresAt=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/invitations [post]
// @Security ApiKeyAuth
func CreateInvitation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var body struct {
			ConversationID string `json:"conversationId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.ConversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		conversation, err := utils.CheckConversationExists(db, body.ConversationID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		if conversation.Type != models.ConversationGroup {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only group conversations can be joined by invitation"})
			return
		}

		isAdmin, err := utils.IsAdmin(db, userID, body.ConversationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only group admins can issue invitations"})
			return
		}

		invitation := models.GroupInvitation{
			ConversationID: body.ConversationID,
			CreatedBy:      userID,
			ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
		}
		if err := db.Create(&invitation).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating invitation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token":     invitation.Token,
			"expiresAt": invitation.ExpiresAt,
		})
	}
}

// @Summary Accepts a group invitation
// @Description Adds the caller as an active member of the invited group; idempotent for existing members
// @Tags invitation
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param token path string true "Invitation token"
// @Success 200 {object} object{message=string,conversationId=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/invitations/{token}/accept [post]
// @Security ApiKeyAuth
func AcceptInvitation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		token := c.Param("token")

		var invitation models.GroupInvitation
		if err := db.Where("token = ?", token).First(&invitation).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
			return
		}

		if invitation.Used || time.Now().After(invitation.ExpiresAt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation is expired or already used"})
			return
		}

		// Idempotent for members who are already active
		isParticipant, err := utils.IsParticipant(db, userID, invitation.ConversationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if isParticipant {
			c.JSON(http.StatusOK, gin.H{
				"message":        "You are already a member of this group",
				"conversationId": invitation.ConversationID,
			})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			// Re-activate a previously removed membership instead of
			// inserting a duplicate row
			var existing models.Participant
			err := tx.Where("conversation_id = ? AND user_id = ?", invitation.ConversationID, userID).
				First(&existing).Error
			if err == nil {
				return tx.Model(&models.Participant{}).
					Where("conversation_id = ? AND user_id = ?", invitation.ConversationID, userID).
					Update("is_active", true).Error
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			return tx.Create(&models.Participant{
				ConversationID: invitation.ConversationID,
				UserID:         userID,
				Role:           models.RoleMember,
				IsActive:       true,
			}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error accepting invitation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Joined group successfully",
			"conversationId": invitation.ConversationID,
		})
	}
}
