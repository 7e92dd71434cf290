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

func TestSubscribeNewAddress(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := perform(r, http.MethodPost, "/api/subscribers", gin.H{
		"email":  "Fan@Example.com",
		"name":   "Fan",
		"source": models.SourcePost,
	}, "")
	requireStatus(t, w, http.StatusCreated)

	var sub models.Subscriber
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sub))
	assert.Equal(t, "fan@example.com", sub.Email)
	assert.True(t, sub.IsActive)
	assert.True(t, sub.ReceiveNewPostAlerts)
}

func TestSubscribeActiveDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	require.NoError(t, db.Create(&models.Subscriber{
		Email: "taken@example.com", IsActive: true,
		ReceiveNewPostAlerts: true, Source: models.SourceHomepage,
		SubscribedAt: time.Now(),
	}).Error)

	w := perform(r, http.MethodPost, "/api/subscribers", gin.H{
		"email": "taken@example.com",
	}, "")
	requireStatus(t, w, http.StatusBadRequest)
}

func TestSubscribeReactivatesInactive(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	require.NoError(t, db.Create(&models.Subscriber{
		Email: "back@example.com", IsActive: false,
		ReceiveNewPostAlerts: false, Source: models.SourceFooter,
		SubscribedAt: time.Now().Add(-48 * time.Hour),
	}).Error)

	w := perform(r, http.MethodPost, "/api/subscribers", gin.H{
		"email":  "back@example.com",
		"source": models.SourcePopup,
	}, "")
	requireStatus(t, w, http.StatusOK)

	var stored models.Subscriber
	require.NoError(t, db.Where("email = ?", "back@example.com").First(&stored).Error)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.ReceiveNewPostAlerts)
	assert.Equal(t, models.SourcePopup, stored.Source)

	var count int64
	require.NoError(t, db.Model(&models.Subscriber{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubscribeRejectsBadSource(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := perform(r, http.MethodPost, "/api/subscribers", gin.H{
		"email":  "odd@example.com",
		"source": "carrier-pigeon",
	}, "")
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUnsubscribe(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	require.NoError(t, db.Create(&models.Subscriber{
		Email: "leaver@example.com", IsActive: true,
		ReceiveNewPostAlerts: true, Source: models.SourceHomepage,
		SubscribedAt: time.Now(),
	}).Error)

	w := perform(r, http.MethodPost, "/api/subscribers/unsubscribe", gin.H{
		"email": "leaver@example.com",
	}, "")
	requireStatus(t, w, http.StatusOK)

	var stored models.Subscriber
	require.NoError(t, db.Where("email = ?", "leaver@example.com").First(&stored).Error)
	assert.False(t, stored.IsActive)

	w = perform(r, http.MethodPost, "/api/subscribers/unsubscribe", gin.H{
		"email": "stranger@example.com",
	}, "")
	requireStatus(t, w, http.StatusNotFound)
}

func TestSubscriberAdminEndpoints(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	_, viewerToken := createUser(t, db, "viewer", models.RoleViewer)

	sub := models.Subscriber{
		Email: "managed@example.com", IsActive: true,
		ReceiveNewPostAlerts: true, Source: models.SourceHomepage,
		SubscribedAt: time.Now(),
	}
	require.NoError(t, db.Create(&sub).Error)

	w := perform(r, http.MethodGet, "/api/subscribers", nil, viewerToken)
	requireStatus(t, w, http.StatusForbidden)

	w = perform(r, http.MethodGet, "/api/subscribers", nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	w = perform(r, http.MethodPut, "/api/subscribers/"+itoa(sub.ID), gin.H{
		"receiveNewPostAlerts": false,
	}, adminToken)
	requireStatus(t, w, http.StatusOK)

	var stored models.Subscriber
	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.False(t, stored.ReceiveNewPostAlerts)
	assert.True(t, stored.IsActive)

	w = perform(r, http.MethodDelete, "/api/subscribers/"+itoa(sub.ID), nil, adminToken)
	requireStatus(t, w, http.StatusOK)

	var count int64
	require.NoError(t, db.Model(&models.Subscriber{}).Count(&count).Error)
	assert.Zero(t, count)
}
