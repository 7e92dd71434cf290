package controllers

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facteam/blog-api/config"
	"github.com/facteam/blog-api/utils"
)

// UploadController signs direct-to-Cloudinary upload requests so browser
// clients never see the API secret.
type UploadController struct{}

// NewUploadController creates an UploadController.
func NewUploadController() *UploadController {
	return &UploadController{}
}

// CloudinarySign returns a timestamped SHA-1 signature over the caller's
// upload parameters, sorted by key the way Cloudinary verifies them.
func (u *UploadController) CloudinarySign(ctx *gin.Context) {
	cfg := config.Get()
	if cfg.CloudinaryAPISecret == "" {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "upload signing is not configured")
		return
	}

	var req struct {
		ParamsToSign map[string]string `json:"paramsToSign"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	params := map[string]string{}
	for k, v := range req.ParamsToSign {
		if strings.TrimSpace(k) != "" {
			params[k] = v
		}
	}
	timestamp := time.Now().Unix()
	params["timestamp"] = fmt.Sprintf("%d", timestamp)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	toSign := strings.Join(pairs, "&") + cfg.CloudinaryAPISecret

	digest := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(digest[:])

	utils.Success(ctx, gin.H{
		"timestamp": timestamp,
		"signature": signature,
		"apiKey":    cfg.CloudinaryAPIKey,
		"cloudName": cfg.CloudinaryCloudName,
	})
}
