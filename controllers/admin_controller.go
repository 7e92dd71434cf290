package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/middleware"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// AdminController serves the dashboard: aggregate stats and unfiltered
// listings of posts, comments and users.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

type activityEntry struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats aggregates dashboard totals plus the ten most recent activity
// entries across posts and comments.
func (a *AdminController) Stats(ctx *gin.Context) {
	var (
		totalPosts        int64
		publishedPosts    int64
		totalComments     int64
		pendingComments   int64
		totalUsers        int64
		activeSubscribers int64
	)

	counts := []struct {
		query *gorm.DB
		dst   *int64
	}{
		{a.db.Model(&models.Post{}), &totalPosts},
		{a.db.Model(&models.Post{}).Where("is_published = ?", true), &publishedPosts},
		{a.db.Model(&models.Comment{}), &totalComments},
		{a.db.Model(&models.Comment{}).Where("is_approved = ?", false), &pendingComments},
		{a.db.Model(&models.User{}), &totalUsers},
		{a.db.Model(&models.Subscriber{}).Where("is_active = ?", true), &activeSubscribers},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to aggregate stats")
			return
		}
	}

	var totalLikes int64
	err := a.db.Model(&models.Post{}).
		Select("COALESCE(SUM(likes), 0)").Scan(&totalLikes).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to aggregate stats")
		return
	}

	activity, err := a.recentActivity(10)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to load recent activity")
		return
	}

	utils.Success(ctx, gin.H{
		"totals": gin.H{
			"posts":             totalPosts,
			"publishedPosts":    publishedPosts,
			"draftPosts":        totalPosts - publishedPosts,
			"comments":          totalComments,
			"pendingComments":   pendingComments,
			"users":             totalUsers,
			"activeSubscribers": activeSubscribers,
			"likes":             totalLikes,
		},
		"recentActivity": activity,
	})
}

// recentActivity merges the latest posts and comments into one stream,
// newest first, capped at limit entries.
func (a *AdminController) recentActivity(limit int) ([]activityEntry, error) {
	var posts []models.Post
	err := a.db.Preload("Author").
		Order("created_at DESC").Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	err = a.db.Order("created_at DESC").Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, err
	}

	entries := make([]activityEntry, 0, len(posts)+len(comments))
	for _, post := range posts {
		entries = append(entries, activityEntry{
			Type:      "post",
			Title:     post.Title,
			Author:    post.Author.Username,
			CreatedAt: post.CreatedAt,
		})
	}
	for _, comment := range comments {
		entries = append(entries, activityEntry{
			Type:      "comment",
			Title:     comment.Content,
			Author:    comment.Author,
			CreatedAt: comment.CreatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AllPosts lists every post including drafts.
func (a *AdminController) AllPosts(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	var posts []models.Post
	var total int64

	if err := a.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count posts")
		return
	}
	if err := a.db.Preload("Author").Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to retrieve posts")
		return
	}

	utils.Success(ctx, utils.Paginated(posts, total, page, limit))
}

// AllComments lists every comment regardless of approval.
func (a *AdminController) AllComments(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	var comments []models.Comment
	var total int64

	if err := a.db.Model(&models.Comment{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to count comments")
		return
	}
	if err := a.db.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to retrieve comments")
		return
	}

	utils.Success(ctx, utils.Paginated(comments, total, page, limit))
}

// AllUsers lists every account.
func (a *AdminController) AllUsers(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	var users []models.User
	var total int64

	if err := a.db.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to count users")
		return
	}
	if err := a.db.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to retrieve users")
		return
	}

	utils.Success(ctx, utils.Paginated(users, total, page, limit))
}

// UpdateUserRole changes an account's role; admins cannot change their own.
func (a *AdminController) UpdateUserRole(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid user id")
		return
	}

	actor, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "unauthorized")
		return
	}
	if actor.ID == id {
		utils.Error(ctx, http.StatusBadRequest, 40071, "cannot change own role")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || !models.ValidRole(req.Role) {
		utils.Error(ctx, http.StatusBadRequest, 40072, "invalid role")
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to get user")
		return
	}

	if err := a.db.Model(&user).UpdateColumn("role", req.Role).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to update role")
		return
	}
	user.Role = req.Role
	utils.Success(ctx, user)
}

// DeleteUser removes an account; admins cannot delete themselves.
func (a *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid user id")
		return
	}

	actor, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "unauthorized")
		return
	}
	if actor.ID == id {
		utils.Error(ctx, http.StatusBadRequest, 40073, "cannot delete own account")
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to get user")
		return
	}

	if err := a.db.Delete(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to delete user")
		return
	}
	utils.Success(ctx, gin.H{"message": "user deleted"})
}
