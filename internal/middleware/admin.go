package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
)

// RequireRole rejects callers ranked below min. Services repeat the check;
// this only keeps obviously unprivileged callers out of whole route groups.
func RequireRole(min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.Require(GetActor(c), min); err != nil {
			common.HandleError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRole(admin)
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
