package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// CommentController manages public comment submission and admin moderation.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// decrement keeps comments_count consistent without dropping below zero;
// the arithmetic happens in storage, never read-modify-write in Go.
var commentsCountDecrement = gorm.Expr(
	"CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")

// ListByPost returns approved comments for a post, newest first.
func (c *CommentController) ListByPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("postId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid post id")
		return
	}

	var comments []models.Comment
	err := c.db.Where("post_id = ? AND is_approved = ?", postID, true).
		Order("created_at DESC").Find(&comments).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to retrieve comments")
		return
	}
	utils.Success(ctx, comments)
}

// Create accepts a public comment and bumps the post's counter atomically.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		PostID  uint   `json:"postId" binding:"required"`
		Author  string `json:"author" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	var post models.Post
	if err := c.db.First(&post, req.PostID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to get post")
		return
	}

	comment := models.Comment{
		PostID:     req.PostID,
		Author:     strings.TrimSpace(req.Author),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Content:    utils.Sanitize(req.Content),
		IsApproved: true,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", req.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create comment")
		return
	}

	utils.Created(ctx, comment)
}

// Update lets an admin edit content or flip the approval flag.
func (c *CommentController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to get comment")
		return
	}

	var req struct {
		Content    *string `json:"content"`
		IsApproved *bool   `json:"isApproved"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	if req.Content != nil {
		comment.Content = utils.Sanitize(*req.Content)
	}
	if req.IsApproved != nil {
		comment.IsApproved = *req.IsApproved
	}

	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update comment")
		return
	}
	utils.Success(ctx, comment)
}

// Approve marks a comment approved.
func (c *CommentController) Approve(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to get comment")
		return
	}

	if err := c.db.Model(&comment).UpdateColumn("is_approved", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update comment")
		return
	}
	comment.IsApproved = true
	utils.Success(ctx, comment)
}

// Delete removes a comment and decrements the post counter, floored at zero.
func (c *CommentController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to get comment")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", commentsCountDecrement).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete comment")
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
