package utils

import (
	models "Wordlink/models/postgres"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorHandler handles global errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// UsernameByID returns the username for a user id, or the id itself when
// the lookup fails (event payloads always carry something displayable).
func UsernameByID(db *gorm.DB, userID string) string {
	var username string
	err := db.Model(&models.User{}).
		Select("username").
		Where("id = ?", userID).
		Limit(1).
		Scan(&username).Error
	if err != nil || username == "" {
		return userID
	}

	return username
}
