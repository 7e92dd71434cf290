package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facteam/blog-api/models"
)

func TestCreateCommentIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	category := createCategory(t, db, "Tech")
	post := createPost(t, db, author, category, "Commented Post", true)

	w := perform(r, http.MethodPost, "/api/comments", gin.H{
		"postId":  post.ID,
		"author":  "Reader",
		"email":   "reader@example.com",
		"content": "great read",
	}, "")
	requireStatus(t, w, http.StatusCreated)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &comment))
	assert.True(t, comment.IsApproved)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, int64(1), stored.CommentsCount)
}

func TestCreateCommentUnknownPost(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := perform(r, http.MethodPost, "/api/comments", gin.H{
		"postId":  99999,
		"author":  "Reader",
		"email":   "reader@example.com",
		"content": "orphan",
	}, "")
	requireStatus(t, w, http.StatusNotFound)
}

func TestListCommentsShowsApprovedOnly(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	category := createCategory(t, db, "Tech")
	post := createPost(t, db, author, category, "Busy Post", true)

	require.NoError(t, db.Create(&models.Comment{
		PostID: post.ID, Author: "a", Email: "a@example.com",
		Content: "visible", IsApproved: true,
	}).Error)
	require.NoError(t, db.Create(&models.Comment{
		PostID: post.ID, Author: "b", Email: "b@example.com",
		Content: "hidden", IsApproved: false,
	}).Error)

	w := perform(r, http.MethodGet, "/api/comments/"+itoa(post.ID), nil, "")
	requireStatus(t, w, http.StatusOK)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "visible", comments[0].Content)
}

func TestDeleteCommentDecrementsCounter(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Tech")
	post := createPost(t, db, author, category, "Counted Post", true)

	comment := models.Comment{
		PostID: post.ID, Author: "a", Email: "a@example.com",
		Content: "bye", IsApproved: true,
	}
	require.NoError(t, db.Create(&comment).Error)
	require.NoError(t, db.Model(&post).UpdateColumn("comments_count", 1).Error)

	w := perform(r, http.MethodDelete, "/api/comments/"+itoa(comment.ID), nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, int64(0), stored.CommentsCount)
}

func TestDeleteCommentCounterFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Tech")
	post := createPost(t, db, author, category, "Drifted Post", true)

	// counter already out of sync at zero
	comment := models.Comment{
		PostID: post.ID, Author: "a", Email: "a@example.com",
		Content: "stale", IsApproved: true,
	}
	require.NoError(t, db.Create(&comment).Error)

	w := perform(r, http.MethodDelete, "/api/comments/"+itoa(comment.ID), nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, int64(0), stored.CommentsCount)
}

func TestCommentModerationRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, editorToken := createUser(t, db, "editor", models.RoleEditor)
	category := createCategory(t, db, "Tech")
	post := createPost(t, db, author, category, "Guarded Post", true)

	comment := models.Comment{
		PostID: post.ID, Author: "a", Email: "a@example.com",
		Content: "text", IsApproved: false,
	}
	require.NoError(t, db.Create(&comment).Error)

	w := perform(r, http.MethodPut, "/api/comments/"+itoa(comment.ID),
		gin.H{"isApproved": true}, editorToken)
	requireStatus(t, w, http.StatusForbidden)

	w = perform(r, http.MethodDelete, "/api/comments/"+itoa(comment.ID), nil, "")
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestApproveComment(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Tech")
	post := createPost(t, db, author, category, "Flagged Post", true)

	comment := models.Comment{
		PostID: post.ID, Author: "a", Email: "a@example.com",
		Content: "pending", IsApproved: false,
	}
	require.NoError(t, db.Create(&comment).Error)

	w := perform(r, http.MethodPut, "/api/comments/"+itoa(comment.ID)+"/approve", nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.Comment
	require.NoError(t, db.First(&stored, comment.ID).Error)
	assert.True(t, stored.IsApproved)
}
