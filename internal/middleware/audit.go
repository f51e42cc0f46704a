package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/pkg/logger"
)

// ActivityRecorder persists activity log entries
type ActivityRecorder interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}

var actionVerbs = map[string]string{
	http.MethodPost:   "create",
	http.MethodPut:    "update",
	http.MethodPatch:  "update",
	http.MethodDelete: "delete",
}

// ActivityLogger records successful mutating requests made by an authenticated user.
// Writes happen off the request path.
func ActivityLogger(recorder ActivityRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		verb, mutating := actionVerbs[c.Request.Method]
		if !mutating || recorder == nil || c.Writer.Status() >= 400 {
			return
		}
		userID := GetUserID(c)
		if userID == "" {
			return
		}

		entry := buildActivity(c, verb, userID)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recorder.Create(ctx, entry); err != nil {
				logger.GetLogger().Error().Err(err).
					Str("action", entry.Action).
					Str("user_id", userID).
					Msg("activity log write failed")
			}
		}()
	}
}

func buildActivity(c *gin.Context, verb, userID string) *domain.ActivityLog {
	entityType, action := describeRoute(c.FullPath(), verb)

	entry := &domain.ActivityLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		CreatedAt: time.Now(),
	}
	if entityType != "" {
		entry.EntityType = &entityType
	}
	for _, name := range []string{"id", "commentId"} {
		if v := c.Param(name); v != "" {
			entry.EntityID = &v
			break
		}
	}
	return entry
}

// describeRoute turns /api/admin/articles/:id/status + "update" into
// ("articles", "update_articles_status").
func describeRoute(fullPath, verb string) (string, string) {
	rest := strings.TrimPrefix(fullPath, "/api/admin/")
	var parts []string
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "", verb
	}
	return parts[0], verb + "_" + strings.Join(parts, "_")
}
