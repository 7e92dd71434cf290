package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/mailer"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// SubscriberController manages the mailing list.
type SubscriberController struct {
	db         *gorm.DB
	dispatcher *mailer.Dispatcher
}

// NewSubscriberController creates a SubscriberController. dispatcher may be
// nil in tests that don't exercise mail.
func NewSubscriberController(db *gorm.DB, dispatcher *mailer.Dispatcher) *SubscriberController {
	return &SubscriberController{db: db, dispatcher: dispatcher}
}

// Subscribe signs an address up. A previously unsubscribed address is
// reactivated in place; an already active address is rejected.
func (s *SubscriberController) Subscribe(ctx *gin.Context) {
	var req struct {
		Email  string `json:"email" binding:"required,email"`
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	source := req.Source
	if source == "" {
		source = models.SourceHomepage
	}
	if !models.ValidSource(source) {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid subscription source")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	var existing models.Subscriber
	err := s.db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil && existing.IsActive:
		utils.Error(ctx, http.StatusBadRequest, 40062, "email is already subscribed")
		return
	case err == nil:
		existing.IsActive = true
		existing.ReceiveNewPostAlerts = true
		existing.Source = source
		existing.SubscribedAt = time.Now()
		if name != "" {
			existing.Name = name
		}
		if err := s.db.Save(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to reactivate subscription")
			return
		}
		utils.Success(ctx, existing)
		return
	case err != gorm.ErrRecordNotFound:
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to check subscription")
		return
	}

	subscriber := models.Subscriber{
		Email:                email,
		Name:                 name,
		IsActive:             true,
		ReceiveNewPostAlerts: true,
		Source:               source,
		SubscribedAt:         time.Now(),
	}
	if err := s.db.Create(&subscriber).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to create subscription")
		return
	}

	if s.dispatcher != nil {
		s.dispatcher.SendWelcome(subscriber.Email, subscriber.Name)
	}

	utils.Created(ctx, subscriber)
}

// Unsubscribe deactivates an address; the row stays for reactivation later.
func (s *SubscriberController) Unsubscribe(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var subscriber models.Subscriber
	if err := s.db.Where("email = ?", email).First(&subscriber).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "subscriber not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to check subscription")
		return
	}

	if err := s.db.Model(&subscriber).UpdateColumn("is_active", false).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to unsubscribe")
		return
	}
	utils.Success(ctx, gin.H{"message": "unsubscribed"})
}

// List returns all subscribers paginated, newest first.
func (s *SubscriberController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	var subscribers []models.Subscriber
	var total int64

	if err := s.db.Model(&models.Subscriber{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to count subscribers")
		return
	}
	if err := s.db.Order("subscribed_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&subscribers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to retrieve subscribers")
		return
	}

	utils.Success(ctx, utils.Paginated(subscribers, total, page, limit))
}

// Update lets an admin adjust a subscription's flags and name.
func (s *SubscriberController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid subscriber id")
		return
	}

	var subscriber models.Subscriber
	if err := s.db.First(&subscriber, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "subscriber not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to check subscription")
		return
	}

	var req struct {
		Name                 *string `json:"name"`
		IsActive             *bool   `json:"isActive"`
		ReceiveNewPostAlerts *bool   `json:"receiveNewPostAlerts"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	if req.Name != nil {
		subscriber.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		subscriber.IsActive = *req.IsActive
	}
	if req.ReceiveNewPostAlerts != nil {
		subscriber.ReceiveNewPostAlerts = *req.ReceiveNewPostAlerts
	}

	if err := s.db.Save(&subscriber).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to update subscriber")
		return
	}
	utils.Success(ctx, subscriber)
}

// Delete removes a subscriber row entirely.
func (s *SubscriberController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid subscriber id")
		return
	}

	var subscriber models.Subscriber
	if err := s.db.First(&subscriber, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "subscriber not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to check subscription")
		return
	}

	if err := s.db.Delete(&subscriber).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50067, "failed to delete subscriber")
		return
	}
	utils.Success(ctx, gin.H{"message": "subscriber deleted"})
}
