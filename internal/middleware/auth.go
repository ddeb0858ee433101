package middleware

import (
	"net/http"

	"technews/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Session keys. The session is server-side (postgres-backed), the cookie only
// carries an opaque reference.
const (
	SessionUserIDKey   = "user_id"
	SessionUsernameKey = "username"
	SessionLoggedInKey = "logged_in"
)

const CheckUserKey = "user"

// AuthRequired ensures a user is logged in. Unauthenticated requests are
// rejected before the handler runs.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		loggedIn, _ := session.Get(SessionLoggedInKey).(bool)
		if !loggedIn {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not logged in"})
			return
		}
		c.Next()
	}
}

// LoadUser retrieves the session user from the database and sets it on the
// context. Mutating handlers take the author identity from here, never from
// the request body.
func LoadUser(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserIDKey)

		if userID != nil {
			var user models.User
			if err := gdb.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}
