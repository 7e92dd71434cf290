package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// CategoryController manages content categories.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// List returns all categories with a live post count per category.
func (c *CategoryController) List(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to retrieve categories")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		var count int64
		if err := c.db.Model(&models.Post{}).
			Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count posts")
			return
		}
		items = append(items, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
			"createdAt":   category.CreatedAt,
			"postCount":   count,
		})
	}
	utils.Success(ctx, items)
}

// GetBySlug returns one category.
func (c *CategoryController) GetBySlug(ctx *gin.Context) {
	var category models.Category
	err := c.db.Where("slug = ?", ctx.Param("slug")).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to get category")
		return
	}
	utils.Success(ctx, category)
}

// Create adds a category; the slug derives from the name.
func (c *CategoryController) Create(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=1"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	slug := utils.ComputeSlug(name)
	if slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "name produces an empty slug")
		return
	}

	var dup int64
	if err := c.db.Model(&models.Category{}).
		Where("name = ? OR slug = ?", name, slug).Count(&dup).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to check category")
		return
	}
	if dup > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40042, "category already exists")
		return
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to create category")
		return
	}
	utils.Created(ctx, category)
}

// Update renames a category; a name change re-derives the slug.
func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid category id")
		return
	}

	var category models.Category
	if err := c.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to get category")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name := strings.TrimSpace(*req.Name)
		slug := utils.ComputeSlug(name)
		if slug == "" {
			utils.Error(ctx, http.StatusBadRequest, 40041, "name produces an empty slug")
			return
		}
		var dup int64
		if err := c.db.Model(&models.Category{}).
			Where("(name = ? OR slug = ?) AND id <> ?", name, slug, category.ID).
			Count(&dup).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to check category")
			return
		}
		if dup > 0 {
			utils.Error(ctx, http.StatusBadRequest, 40042, "category already exists")
			return
		}
		category.Name = name
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}

	if err := c.db.Save(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update category")
		return
	}
	utils.Success(ctx, category)
}

// Delete removes an empty category; categories still holding posts stay.
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid category id")
		return
	}

	var category models.Category
	if err := c.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to get category")
		return
	}

	var inUse int64
	if err := c.db.Model(&models.Post{}).
		Where("category_id = ?", category.ID).Count(&inUse).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count posts")
		return
	}
	if inUse > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40044, "category still has posts")
		return
	}

	if err := c.db.Delete(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to delete category")
		return
	}
	utils.Success(ctx, gin.H{"message": "category deleted"})
}
