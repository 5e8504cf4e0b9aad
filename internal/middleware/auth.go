package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/service"
)

const (
	ctxKeyUserID   = "auth.user_id"
	ctxKeyReviewer = "auth.reviewer"
)

// Authenticate resolves the bearer token into (user id, reviewer flag) on
// the gin context. Fine-grained checks (ownership, reviewer privilege per
// operation) stay in the service layer.
func Authenticate(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid token"})
			return
		}

		ctx.Set(ctxKeyUserID, claims.UserID)
		ctx.Set(ctxKeyReviewer, claims.Reviewer)
		ctx.Next()
	}
}

// CurrentUserID reads the authenticated user id set by Authenticate.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ctxKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// IsReviewer reads the reviewer capability flag set by Authenticate.
func IsReviewer(ctx *gin.Context) bool {
	v, ok := ctx.Get(ctxKeyReviewer)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
