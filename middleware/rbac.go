package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// Actions checked against the capability table.
const (
	// ActionContentWrite covers post authoring (create/update).
	ActionContentWrite = "content:write"
	// ActionAdmin covers destructive and administrative operations.
	ActionAdmin = "admin"
)

// capabilities is the single (role, action) table the guard consults.
// Admin implies every lower capability.
var capabilities = map[string]map[string]bool{
	models.RoleAdmin: {
		ActionContentWrite: true,
		ActionAdmin:        true,
	},
	models.RoleEditor: {
		ActionContentWrite: true,
	},
	models.RoleViewer: {},
}

// Allowed reports whether role may perform action.
func Allowed(role, action string) bool {
	return capabilities[role][action]
}

// RequireCapability rejects requests whose authenticated user lacks the
// capability. Must run after AuthRequired.
func RequireCapability(action string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
			ctx.Abort()
			return
		}
		if !Allowed(user.Role, action) {
			utils.Error(ctx, http.StatusForbidden, 40301, "insufficient role")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
