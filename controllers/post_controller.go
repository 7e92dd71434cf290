package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/mailer"
	"github.com/facteam/blog-api/middleware"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// PostController manages post CRUD and the publication lifecycle.
type PostController struct {
	db         *gorm.DB
	dispatcher *mailer.Dispatcher
}

// NewPostController creates a PostController. dispatcher may be nil in tests
// that don't exercise notifications.
func NewPostController(db *gorm.DB, dispatcher *mailer.Dispatcher) *PostController {
	return &PostController{db: db, dispatcher: dispatcher}
}

// publishedQuery returns a fresh chain each call; gorm chains are not safe
// to reuse across Count and Find.
func (p *PostController) publishedQuery() *gorm.DB {
	return p.db.Model(&models.Post{}).Where("is_published = ?", true)
}

// listPublished runs the shared count-then-page flow over the published set,
// with extra conditions applied by cond.
func (p *PostController) listPublished(ctx *gin.Context, cond func(*gorm.DB) *gorm.DB) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	var total int64
	if err := cond(p.publishedQuery()).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count posts")
		return
	}

	var posts []models.Post
	if err := cond(p.publishedQuery()).
		Preload("Author").Preload("Category").
		Order("published_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to retrieve posts")
		return
	}

	utils.Success(ctx, utils.Paginated(posts, total, page, limit))
}

// ListPublished returns published posts, newest publication first.
func (p *PostController) ListPublished(ctx *gin.Context) {
	p.listPublished(ctx, func(q *gorm.DB) *gorm.DB { return q })
}

// Search matches published posts whose title or content contains the term.
func (p *PostController) Search(ctx *gin.Context) {
	term := strings.TrimSpace(ctx.Query("q"))
	if term == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "missing search term")
		return
	}
	pattern := "%" + term + "%"
	p.listPublished(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	})
}

// ListByCategory returns published posts belonging to the category slug.
func (p *PostController) ListByCategory(ctx *gin.Context) {
	var category models.Category
	err := p.db.Where("slug = ?", ctx.Param("slug")).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to get category")
		return
	}

	p.listPublished(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("category_id = ?", category.ID)
	})
}

// ListByAuthor returns published posts written by the given username.
func (p *PostController) ListByAuthor(ctx *gin.Context) {
	var author models.User
	err := p.db.Where("username = ?", ctx.Param("username")).First(&author).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to get author")
		return
	}

	p.listPublished(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("author_id = ?", author.ID)
	})
}

// GetByID returns a single post by numeric id.
func (p *PostController) GetByID(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid post id")
		return
	}

	var post models.Post
	err := p.db.Preload("Author").Preload("Category").First(&post, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to get post")
		return
	}
	utils.Success(ctx, post)
}

// GetBySlug returns a single published post by slug. Drafts are only
// reachable through the id lookup.
func (p *PostController) GetBySlug(ctx *gin.Context) {
	var post models.Post
	err := p.db.Preload("Author").Preload("Category").
		Where("slug = ? AND is_published = ?", ctx.Param("slug"), true).
		First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to get post")
		return
	}
	utils.Success(ctx, post)
}

// Like increments a post's like counter atomically in storage.
func (p *PostController) Like(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid post id")
		return
	}

	res := p.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to like post")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
		return
	}

	var post models.Post
	if err := p.db.First(&post, id).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to get post")
		return
	}
	utils.Success(ctx, gin.H{"likes": post.Likes})
}

type postRequest struct {
	Title         string   `json:"title" binding:"required,min=1"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt"`
	CategoryID    uint     `json:"categoryId" binding:"required"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	IsPublished   bool     `json:"isPublished"`
}

// Create stores a new post; the slug derives from the title at creation and
// never changes afterwards. Publishing immediately triggers notification.
func (p *PostController) Create(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "unauthorized")
		return
	}

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	var category models.Category
	if err := p.db.First(&category, req.CategoryID).Error; err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "unknown category")
		return
	}

	slug := utils.ComputeSlug(req.Title)
	if slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, "title produces an empty slug")
		return
	}
	var dup int64
	if err := p.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&dup).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to check slug")
		return
	}
	if dup > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40025, "a post with this title already exists")
		return
	}

	post := models.Post{
		Title:         strings.TrimSpace(req.Title),
		Content:       utils.Sanitize(req.Content),
		Excerpt:       strings.TrimSpace(req.Excerpt),
		AuthorID:      user.ID,
		CategoryID:    category.ID,
		Tags:          req.Tags,
		Slug:          slug,
		FeaturedImage: req.FeaturedImage,
		IsPublished:   req.IsPublished,
	}
	if post.IsPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to create post")
		return
	}

	if post.IsPublished && p.dispatcher != nil {
		post.Author = *user
		p.dispatcher.PostPublished(&post)
	}

	utils.Created(ctx, post)
}

// Update edits post fields. PublishedAt is stamped only on the first
// transition to published and kept on later unpublish/republish cycles.
func (p *PostController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.Preload("Author").First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to get post")
		return
	}

	var req struct {
		Title         *string   `json:"title"`
		Content       *string   `json:"content"`
		Excerpt       *string   `json:"excerpt"`
		CategoryID    *uint     `json:"categoryId"`
		Tags          *[]string `json:"tags"`
		FeaturedImage *string   `json:"featuredImage"`
		IsPublished   *bool     `json:"isPublished"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	// slug stays as minted at creation even when the title changes
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = utils.Sanitize(*req.Content)
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := p.db.First(&category, *req.CategoryID).Error; err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40023, "unknown category")
			return
		}
		post.CategoryID = category.ID
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}

	becamePublished := false
	if req.IsPublished != nil {
		if *req.IsPublished && !post.IsPublished {
			becamePublished = true
			if post.PublishedAt == nil {
				now := time.Now()
				post.PublishedAt = &now
			}
		}
		post.IsPublished = *req.IsPublished
	}

	if err := p.db.Omit("Author", "Category").Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to update post")
		return
	}

	if becamePublished && p.dispatcher != nil {
		p.dispatcher.PostPublished(&post)
	}

	utils.Success(ctx, post)
}

// Delete removes a post together with its comments in one transaction.
func (p *PostController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to get post")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to delete post")
		return
	}

	utils.Success(ctx, gin.H{"message": "post deleted"})
}
