package handlers

import (
	"technews/internal/middleware"
	"technews/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// saveSession establishes the logged-in session for a user.
func saveSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserIDKey, user.ID)
	session.Set(middleware.SessionUsernameKey, user.Username)
	session.Set(middleware.SessionLoggedInKey, true)
	return session.Save()
}

// currentUser returns the user loaded by the LoadUser middleware, nil when the
// session carries no valid user.
func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}
