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

func TestListAuthorsExcludesViewers(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	createUser(t, db, "admin", models.RoleAdmin)
	createUser(t, db, "editor", models.RoleEditor)
	createUser(t, db, "viewer", models.RoleViewer)

	w := perform(r, http.MethodGet, "/api/authors", nil, "")
	requireStatus(t, w, http.StatusOK)

	var authors []models.User
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &authors))
	require.Len(t, authors, 2)
	for _, author := range authors {
		assert.NotEqual(t, models.RoleViewer, author.Role)
	}
}

func TestGetAuthorByUsername(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	createUser(t, db, "editor", models.RoleEditor)
	createUser(t, db, "viewer", models.RoleViewer)

	w := perform(r, http.MethodGet, "/api/authors/editor", nil, "")
	requireStatus(t, w, http.StatusOK)

	// plain viewers are not exposed as authors
	w = perform(r, http.MethodGet, "/api/authors/viewer", nil, "")
	requireStatus(t, w, http.StatusNotFound)
}

func TestCreateAuthorDefaultsToEditor(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)

	w := perform(r, http.MethodPost, "/api/authors", gin.H{
		"username": "newwriter",
		"email":    "newwriter@example.com",
		"password": "password123",
		"name":     "New Writer",
		"bio":      "writes things",
	}, adminToken)
	requireStatus(t, w, http.StatusCreated)

	var author models.User
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &author))
	assert.Equal(t, models.RoleEditor, author.Role)

	w = perform(r, http.MethodPost, "/api/authors", gin.H{
		"username": "badrole",
		"email":    "badrole@example.com",
		"password": "password123",
		"role":     "superuser",
	}, adminToken)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUpdateAuthorKeepsPasswordWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	editor, _ := createUser(t, db, "editor", models.RoleEditor)

	w := perform(r, http.MethodPut, "/api/authors/"+itoa(editor.ID), gin.H{
		"name": "Renamed Editor",
	}, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.User
	require.NoError(t, db.First(&stored, editor.ID).Error)
	assert.Equal(t, "Renamed Editor", stored.Name)
	assert.Equal(t, editor.PasswordHash, stored.PasswordHash)
}

func TestDeleteAuthor(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	editor, _ := createUser(t, db, "editor", models.RoleEditor)

	w := perform(r, http.MethodDelete, "/api/authors/"+itoa(editor.ID), nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", editor.ID).Count(&count).Error)
	assert.Zero(t, count)
}
