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

func TestListCategoriesWithPostCounts(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	tech := createCategory(t, db, "Tech")
	createCategory(t, db, "Life")
	createPost(t, db, author, tech, "Counted One", true)
	createPost(t, db, author, tech, "Counted Two", false)

	w := perform(r, http.MethodGet, "/api/categories", nil, "")
	requireStatus(t, w, http.StatusOK)

	var items []struct {
		Name      string `json:"name"`
		PostCount int64  `json:"postCount"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))
	require.Len(t, items, 2)

	counts := map[string]int64{}
	for _, item := range items {
		counts[item.Name] = item.PostCount
	}
	assert.Equal(t, int64(2), counts["Tech"])
	assert.Equal(t, int64(0), counts["Life"])
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)

	w := perform(r, http.MethodPost, "/api/categories", gin.H{
		"name":        "Cloud & Infrastructure",
		"description": "ops content",
	}, adminToken)
	requireStatus(t, w, http.StatusCreated)

	var category models.Category
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &category))
	assert.Equal(t, "cloud-infrastructure", category.Slug)

	// duplicate name rejected
	w = perform(r, http.MethodPost, "/api/categories", gin.H{
		"name": "Cloud & Infrastructure",
	}, adminToken)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestCategoryAdminOnly(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, editorToken := createUser(t, db, "editor", models.RoleEditor)

	w := perform(r, http.MethodPost, "/api/categories", gin.H{"name": "Nope"}, editorToken)
	requireStatus(t, w, http.StatusForbidden)
}

func TestUpdateCategoryRenameRederivesSlug(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Old Name")

	w := perform(r, http.MethodPut, "/api/categories/"+itoa(category.ID),
		gin.H{"name": "New Name"}, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.Category
	require.NoError(t, db.First(&stored, category.ID).Error)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "new-name", stored.Slug)
}

func TestDeleteCategoryBlockedWhileInUse(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author, _ := createUser(t, db, "editor", models.RoleEditor)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	category := createCategory(t, db, "Busy")
	createPost(t, db, author, category, "Occupying Post", true)

	w := perform(r, http.MethodDelete, "/api/categories/"+itoa(category.ID), nil, adminToken)
	requireStatus(t, w, http.StatusBadRequest)

	empty := createCategory(t, db, "Empty")
	w = perform(r, http.MethodDelete, "/api/categories/"+itoa(empty.ID), nil, adminToken)
	requireStatus(t, w, http.StatusOK)
}
