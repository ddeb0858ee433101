package handlers

import (
	"log"
	"net/http"
	"strconv"

	"technews/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(gdb *gorm.DB) *CommentHandler {
	return &CommentHandler{db: gdb}
}

type createCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
	PostID      uint   `json:"post_id" binding:"required"`
}

// List returns all comments, newest first, minimal projection.
func (h *CommentHandler) List(c *gin.Context) {
	var comments []models.Comment
	if err := h.db.
		Select("id", "comment_text", "user_id", "post_id", "created_at").
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		log.Printf("list comments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create posts a comment. The author is the session user; the target post
// comes from the body and a miss surfaces the foreign key violation.
func (h *CommentHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not logged in"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	comment := models.Comment{
		CommentText: req.CommentText,
		PostID:      req.PostID,
		UserID:      user.ID,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		log.Printf("create comment: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment by id.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No comment found with this id"})
		return
	}

	res := h.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		log.Printf("delete comment %d: %v", id, res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete comment"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No comment found with this id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
