package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/middleware"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// AuthController handles registration, login and session introspection.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a viewer account and issues a JWT.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := a.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check existing users")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username or email already registered")
		return
	}

	hash, err := utils.HashSecret(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         models.RoleViewer,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Created(ctx, gin.H{"token": token, "user": user})
}

// Login verifies credentials, stamps LastLogin and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "invalid email or password")
		return
	}
	if !utils.CheckSecret(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "invalid email or password")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := a.db.Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to update last login")
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "unauthorized")
		return
	}
	utils.Success(ctx, user)
}

// Validate confirms the bearer token still maps to a live account.
func (a *AuthController) Validate(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "unauthorized")
		return
	}
	utils.Success(ctx, gin.H{"valid": true, "user": user})
}
