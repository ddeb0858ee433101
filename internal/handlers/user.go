package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"technews/internal/middleware"
	"technews/internal/models"
	"technews/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(gdb *gorm.DB) *UserHandler {
	return &UserHandler{db: gdb}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=4"`
}

// List returns all users. The password hash never leaves the model layer.
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Find(&users).Error; err != nil {
		log.Printf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns one user with their posts, comments (each carrying the parent
// post title) and the posts they have voted on.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user found with this id"})
		return
	}

	var user models.User
	err = h.db.
		Preload("Posts", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "post_url", "created_at", "user_id")
		}).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Preload("Comments.Post", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title")
		}).
		First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user found with this id"})
		return
	}
	if err != nil {
		log.Printf("get user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	// Posts this user has upvoted, through the votes join table.
	if err := h.db.Model(&models.Post{}).
		Select("posts.id", "posts.title").
		Joins("JOIN votes ON votes.post_id = posts.id AND votes.user_id = ?", user.ID).
		Find(&user.VotedPosts).Error; err != nil {
		log.Printf("get voted posts for user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Register creates an account and logs the new user straight in.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Email address already in use"})
			return
		}
		log.Printf("create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	if err := saveSession(c, &user); err != nil {
		log.Printf("save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login verifies credentials and establishes a session. The hash comparison
// always runs when a user is found; it is never short-circuited.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No user with that email address"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Incorrect password"})
		return
	}

	if err := saveSession(c, &user); err != nil {
		log.Printf("save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "message": "You are now logged in!"})
}

// Logout destroys the active session, 404 when there is none.
func (h *UserHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	loggedIn, _ := session.Get(middleware.SessionLoggedInKey).(bool)
	if !loggedIn {
		c.Status(http.StatusNotFound)
		return
	}

	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("destroy session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to destroy session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Update applies a partial update. A changed password is re-hashed through the
// same helper used at registration; the hash column never receives plaintext.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user found with this id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			log.Printf("hash password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
			return
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}

	res := h.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Email address already in use"})
			return
		}
		log.Printf("update user %d: %v", id, res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user found with this id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// Delete removes a user by id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user found with this id"})
		return
	}

	res := h.db.Delete(&models.User{}, id)
	if res.Error != nil {
		log.Printf("delete user %d: %v", id, res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No user found with this id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
