package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// AuthorController exposes writing-staff profiles publicly and lets admins
// manage them.
type AuthorController struct {
	db *gorm.DB
}

// NewAuthorController creates an AuthorController.
func NewAuthorController(db *gorm.DB) *AuthorController {
	return &AuthorController{db: db}
}

var authorRoles = []string{models.RoleAdmin, models.RoleEditor}

// List returns all users who hold a writing role.
func (a *AuthorController) List(ctx *gin.Context) {
	var authors []models.User
	err := a.db.Where("role IN ?", authorRoles).
		Order("username ASC").Find(&authors).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to retrieve authors")
		return
	}
	utils.Success(ctx, authors)
}

// GetByUsername returns one author profile; plain viewers are not exposed.
func (a *AuthorController) GetByUsername(ctx *gin.Context) {
	var author models.User
	err := a.db.Where("username = ? AND role IN ?", ctx.Param("username"), authorRoles).
		First(&author).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to get author")
		return
	}
	utils.Success(ctx, author)
}

// Create provisions an author account with an editor role by default.
func (a *AuthorController) Create(ctx *gin.Context) {
	var req struct {
		Username string             `json:"username" binding:"required,min=3,max=64"`
		Email    string             `json:"email" binding:"required,email"`
		Password string             `json:"password" binding:"required,min=6"`
		Name     string             `json:"name"`
		Role     string             `json:"role"`
		Bio      string             `json:"bio"`
		Title    string             `json:"title"`
		Avatar   string             `json:"avatar"`
		Social   models.SocialLinks `json:"social"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !models.ValidRole(role) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid role")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var dup int64
	if err := a.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).Count(&dup).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to check existing users")
		return
	}
	if dup > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40052, "username or email already registered")
		return
	}

	hash, err := utils.HashSecret(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to hash password")
		return
	}

	author := models.User{
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
		Bio:          req.Bio,
		Title:        req.Title,
		Avatar:       req.Avatar,
		Social:       req.Social,
	}
	if err := a.db.Create(&author).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to create author")
		return
	}
	utils.Created(ctx, author)
}

// Update edits an author profile; an empty password field leaves the
// credential untouched.
func (a *AuthorController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid author id")
		return
	}

	var author models.User
	if err := a.db.First(&author, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to get author")
		return
	}

	var req struct {
		Name     *string             `json:"name"`
		Password *string             `json:"password"`
		Role     *string             `json:"role"`
		Bio      *string             `json:"bio"`
		Title    *string             `json:"title"`
		Avatar   *string             `json:"avatar"`
		Social   *models.SocialLinks `json:"social"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	if req.Name != nil {
		author.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			utils.Error(ctx, http.StatusBadRequest, 40054, "password too short")
			return
		}
		hash, err := utils.HashSecret(*req.Password)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to hash password")
			return
		}
		author.PasswordHash = hash
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			utils.Error(ctx, http.StatusBadRequest, 40051, "invalid role")
			return
		}
		author.Role = *req.Role
	}
	if req.Bio != nil {
		author.Bio = *req.Bio
	}
	if req.Title != nil {
		author.Title = *req.Title
	}
	if req.Avatar != nil {
		author.Avatar = *req.Avatar
	}
	if req.Social != nil {
		author.Social = *req.Social
	}

	if err := a.db.Save(&author).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to update author")
		return
	}
	utils.Success(ctx, author)
}

// Delete removes an author account.
func (a *AuthorController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid author id")
		return
	}

	var author models.User
	if err := a.db.First(&author, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to get author")
		return
	}

	if err := a.db.Delete(&author).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to delete author")
		return
	}
	utils.Success(ctx, gin.H{"message": "author deleted"})
}
