package handlers_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"technews/internal/models"

	"github.com/gin-gonic/gin"
)

func TestCommentCreateRequiresSession(t *testing.T) {
	r, gdb := newTestRouter(t)
	tc := newClient(t, r)

	w := tc.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "hi", "post_id": 1})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	var count int64
	gdb.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no comments written, found %d", count)
	}
}

func TestCommentCreate(t *testing.T) {
	r, _ := newTestRouter(t)
	tc := newClient(t, r)
	user := tc.register("alice", "alice@example.com", "pass1")
	post := tc.createPost("T", "https://example.com")

	// The author comes from the session, a user_id in the body is ignored.
	w := tc.do(http.MethodPost, "/api/comments", gin.H{
		"comment_text": "hi",
		"post_id":      post.ID,
		"user_id":      9999,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create comment returned %d: %s", w.Code, w.Body.String())
	}
	var comment models.Comment
	decodeJSON(t, w, &comment)
	if comment.UserID != user.ID {
		t.Errorf("comment author = %d, want session user %d", comment.UserID, user.ID)
	}
	if comment.PostID != post.ID {
		t.Errorf("comment post = %d, want %d", comment.PostID, post.ID)
	}
	if comment.CreatedAt.IsZero() {
		t.Error("expected a server-assigned created_at")
	}
}

func TestCommentCreateValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	tc := newClient(t, r)
	tc.register("alice", "alice@example.com", "pass1")
	post := tc.createPost("T", "https://example.com")

	if w := tc.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "", "post_id": post.ID}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty comment, got %d", w.Code)
	}
	if w := tc.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "hi", "post_id": 9999}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown post, got %d", w.Code)
	}
}

func TestCommentListOrder(t *testing.T) {
	r, gdb := newTestRouter(t)
	tc := newClient(t, r)
	tc.register("alice", "alice@example.com", "pass1")
	post := tc.createPost("T", "https://example.com")

	var older models.Comment
	w := tc.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "first", "post_id": post.ID})
	decodeJSON(t, w, &older)
	gdb.Model(&models.Comment{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour))

	if w := tc.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "second", "post_id": post.ID}); w.Code != http.StatusOK {
		t.Fatalf("create comment returned %d", w.Code)
	}

	w = tc.do(http.MethodGet, "/api/comments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments returned %d", w.Code)
	}
	var comments []models.Comment
	decodeJSON(t, w, &comments)
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].CommentText != "second" || comments[1].CommentText != "first" {
		t.Errorf("comments not ordered newest first: %q, %q", comments[0].CommentText, comments[1].CommentText)
	}
}

func TestCommentDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	tc := newClient(t, r)
	tc.register("alice", "alice@example.com", "pass1")
	post := tc.createPost("T", "https://example.com")

	var comment models.Comment
	w := tc.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "hi", "post_id": post.ID})
	decodeJSON(t, w, &comment)

	path := "/api/comments/" + strconv.Itoa(int(comment.ID))
	if w := tc.do(http.MethodDelete, path, nil); w.Code != http.StatusOK {
		t.Fatalf("delete returned %d", w.Code)
	}
	if w := tc.do(http.MethodDelete, path, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", w.Code)
	}
}
