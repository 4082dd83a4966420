package middleware

import (
	"net/http"
	"strings"
	"time"

	"appointment-booking/internal/models"
	"appointment-booking/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "abs_session"

const sessionKey = "currentSession"

// Session loads the caller's server-side session and puts it into the
// request context, creating a fresh one when the token is missing, invalid,
// expired or revoked. Every route runs behind this, logged in or not: the
// login challenge needs a session before any credential exists.
func Session(secret string, ttlHours int, db *gorm.DB) gin.HandlerFunc {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	ttl := time.Duration(ttlHours) * time.Hour

	return func(c *gin.Context) {
		var tokenStr string

		// 1) Cookie set on a previous response
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenStr = cookie
		}

		// 2) Header: Authorization: Bearer xxx (for scripted clients)
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}
		}

		var sess *models.Session
		if tokenStr != "" {
			if claims, err := util.ParseToken(secret, tokenStr); err == nil {
				var row models.Session
				err := db.Where("id = ? AND revoked = ? AND expires_at > ?",
					claims.SessionID, false, time.Now()).First(&row).Error
				if err == nil {
					sess = &row
				}
			}
		}

		if sess == nil {
			sess = &models.Session{
				ID:        uuid.NewString(),
				ExpiresAt: time.Now().Add(ttl),
			}
			if err := db.Create(sess).Error; err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create session")
				c.Abort()
				return
			}
			token, err := util.GenerateToken(secret, sess.ID, ttl)
			if err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create session")
				c.Abort()
				return
			}
			c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session placed in the context by Session.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}
