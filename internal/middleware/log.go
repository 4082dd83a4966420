package middleware

import (
	"appointment-booking/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Audit appends a row to the audit log after each authenticated request.
// Best effort: a failed insert never affects the response.
func Audit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		sess := CurrentSession(c)
		if sess == nil || !sess.LoggedIn {
			return
		}

		entry := models.AuditLog{
			Username:  sess.Username,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		_ = db.Create(&entry).Error
	}
}
