package middleware

import (
	"net/http"

	"appointment-booking/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireLogin guards routes that need an authenticated session. It replaces
// the route decorator the booking flow grew up with: the check is an
// explicit middleware on the protected group.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.LoggedIn {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Please log in first")
			c.Abort()
			return
		}
		c.Next()
	}
}
