package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facteam/blog-api/models"
)

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Tech")

	published := createPost(t, db, author, category, "Live Post", true)
	createPost(t, db, author, category, "Draft Post", false)
	require.NoError(t, db.Model(&published).UpdateColumn("likes", 7).Error)

	require.NoError(t, db.Create(&models.Comment{
		PostID: published.ID, Author: "a", Email: "a@example.com",
		Content: "ok", IsApproved: true,
	}).Error)
	require.NoError(t, db.Create(&models.Comment{
		PostID: published.ID, Author: "b", Email: "b@example.com",
		Content: "pending", IsApproved: false,
	}).Error)

	require.NoError(t, db.Create(&models.Subscriber{
		Email: "active@example.com", IsActive: true,
		ReceiveNewPostAlerts: true, Source: models.SourceHomepage,
		SubscribedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.Subscriber{
		Email: "gone@example.com", IsActive: false,
		Source: models.SourceHomepage, SubscribedAt: time.Now(),
	}).Error)

	w := perform(r, http.MethodGet, "/api/admin/stats", nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var data struct {
		Totals struct {
			Posts             int64 `json:"posts"`
			PublishedPosts    int64 `json:"publishedPosts"`
			DraftPosts        int64 `json:"draftPosts"`
			Comments          int64 `json:"comments"`
			PendingComments   int64 `json:"pendingComments"`
			Users             int64 `json:"users"`
			ActiveSubscribers int64 `json:"activeSubscribers"`
			Likes             int64 `json:"likes"`
		} `json:"totals"`
		RecentActivity []struct {
			Type   string `json:"type"`
			Title  string `json:"title"`
			Author string `json:"author"`
		} `json:"recentActivity"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))

	assert.Equal(t, int64(2), data.Totals.Posts)
	assert.Equal(t, int64(1), data.Totals.PublishedPosts)
	assert.Equal(t, int64(1), data.Totals.DraftPosts)
	assert.Equal(t, int64(2), data.Totals.Comments)
	assert.Equal(t, int64(1), data.Totals.PendingComments)
	assert.Equal(t, int64(2), data.Totals.Users)
	assert.Equal(t, int64(1), data.Totals.ActiveSubscribers)
	assert.Equal(t, int64(7), data.Totals.Likes)

	require.NotEmpty(t, data.RecentActivity)
	assert.LessOrEqual(t, len(data.RecentActivity), 10)
}

func TestAdminStatsRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, editorToken := createUser(t, db, "editor", models.RoleEditor)

	w := perform(r, http.MethodGet, "/api/admin/stats", nil, editorToken)
	requireStatus(t, w, http.StatusForbidden)

	w = perform(r, http.MethodGet, "/api/admin/stats", nil, "")
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestAdminListingsIncludeDrafts(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Tech")
	createPost(t, db, author, category, "Live Post", true)
	createPost(t, db, author, category, "Draft Post", false)

	w := perform(r, http.MethodGet, "/api/admin/posts", nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var data struct {
		Items []models.Post `json:"items"`
		Total int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, int64(2), data.Total)
}

func TestUpdateUserRole(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	admin, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	viewer, _ := createUser(t, db, "viewer", models.RoleViewer)

	w := perform(r, http.MethodPut, "/api/admin/users/"+itoa(viewer.ID)+"/role",
		gin.H{"role": models.RoleEditor}, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.User
	require.NoError(t, db.First(&stored, viewer.ID).Error)
	assert.Equal(t, models.RoleEditor, stored.Role)

	// invalid role rejected
	w = perform(r, http.MethodPut, "/api/admin/users/"+itoa(viewer.ID)+"/role",
		gin.H{"role": "overlord"}, adminToken)
	requireStatus(t, w, http.StatusBadRequest)

	// admins cannot change their own role
	w = perform(r, http.MethodPut, "/api/admin/users/"+itoa(admin.ID)+"/role",
		gin.H{"role": models.RoleViewer}, adminToken)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	admin, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	viewer, _ := createUser(t, db, "viewer", models.RoleViewer)

	// admins cannot delete themselves
	w := perform(r, http.MethodDelete, "/api/admin/users/"+itoa(admin.ID), nil, adminToken)
	requireStatus(t, w, http.StatusBadRequest)

	w = perform(r, http.MethodDelete, "/api/admin/users/"+itoa(viewer.ID), nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", viewer.ID).Count(&count).Error)
	assert.Zero(t, count)
}
