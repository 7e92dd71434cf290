package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// ContextUserKey is the key used to store the authenticated user in Gin context.
const ContextUserKey = "auth_user"

// AuthRequired ensures the request carries a valid bearer token resolving to
// a live user record. The token binds a user id only; role and profile are
// always read fresh from the database.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "invalid or expired token")
			ctx.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "user no longer exists")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserKey, &user)
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthRequired.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
