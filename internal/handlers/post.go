package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"technews/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(gdb *gorm.DB) *PostHandler {
	return &PostHandler{db: gdb}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	PostURL string `json:"post_url" binding:"required,url"`
}

type updatePostRequest struct {
	Title string `json:"title" binding:"required"`
}

type upvoteRequest struct {
	PostID uint `json:"post_id" binding:"required"`
}

// fillVoteCounts batch-counts votes for a page of posts. vote_count is never
// stored; it is recomputed from the votes table on every read.
func fillVoteCounts(gdb *gorm.DB, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	if err := gdb.Model(&models.Vote{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error; err != nil {
		return err
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].VoteCount = countMap[posts[i].ID]
	}
	return nil
}

// countVotes counts the votes for a single post at read time.
func countVotes(gdb *gorm.DB, postID uint) (int, error) {
	var count int64
	err := gdb.Model(&models.Vote{}).Where("post_id = ?", postID).Count(&count).Error
	return int(count), err
}

// withAssociations preloads the author username and the comments with their
// commenter usernames.
func withAssociations(gdb *gorm.DB) *gorm.DB {
	return gdb.
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username")
		}).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Preload("Comments.User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username")
		})
}

// List returns all posts, newest first, each with its vote count, author and
// comments.
func (h *PostHandler) List(c *gin.Context) {
	var posts []models.Post
	if err := withAssociations(h.db).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		log.Printf("list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch posts"})
		return
	}

	if err := fillVoteCounts(h.db, posts); err != nil {
		log.Printf("count votes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get returns one post with the same projection as List.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		return
	}

	var post models.Post
	err = withAssociations(h.db).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		return
	}
	if err != nil {
		log.Printf("get post %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch post"})
		return
	}

	if post.VoteCount, err = countVotes(h.db, post.ID); err != nil {
		log.Printf("count votes for post %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Create submits a link. The owner is the session user, never the request
// body.
func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not logged in"})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post := models.Post{
		Title:   req.Title,
		PostURL: req.PostURL,
		UserID:  user.ID,
	}
	if err := h.db.Create(&post).Error; err != nil {
		log.Printf("create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Upvote inserts a vote and returns the post with its fresh count. Both steps
// run in one transaction so a concurrent vote can not make the count stale,
// and the composite unique index on votes rejects a duplicate pair.
func (h *PostHandler) Upvote(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not logged in"})
		return
	}

	var req upvoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		log.Printf("begin upvote tx: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upvote post"})
		return
	}

	vote := models.Vote{UserID: user.ID, PostID: req.PostID}
	if err := tx.Create(&vote).Error; err != nil {
		tx.Rollback()
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "User has already voted on this post"})
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		default:
			log.Printf("create vote: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upvote post"})
		}
		return
	}

	var post models.Post
	if err := tx.First(&post, req.PostID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
			return
		}
		log.Printf("refetch post %d: %v", req.PostID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upvote post"})
		return
	}

	count, err := countVotes(tx, post.ID)
	if err != nil {
		tx.Rollback()
		log.Printf("count votes for post %d: %v", req.PostID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upvote post"})
		return
	}
	post.VoteCount = count

	if err := tx.Commit().Error; err != nil {
		log.Printf("commit upvote tx: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upvote post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update changes a post's title.
func (h *PostHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	res := h.db.Model(&models.Post{}).Where("id = ?", id).Update("title", req.Title)
	if res.Error != nil {
		log.Printf("update post %d: %v", id, res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update post"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// Delete removes a post by id.
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		return
	}

	res := h.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		log.Printf("delete post %d: %v", id, res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete post"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found with this id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
