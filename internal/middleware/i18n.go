package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/pkg/i18n"
)

// I18n detects the client's preferred language from the Accept-Language header
// (or ?lang=) and stores it in the gin context. Arabic is the default.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Accept-Language")
		if lang := c.Query("lang"); lang != "" {
			header = lang
		}
		locale := i18n.ParseAcceptLanguage(header)
		c.Set(i18n.ContextKey, locale)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}
