package middleware

import (
	"masterhub_backend/internal/i18n"
	"masterhub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// LocaleMiddleware: ?lang -> cookie -> Accept-Language. Если ничего не подошло,
// локаль позже возьмется из профиля (setProfile), затем "en".
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if locale := i18n.LocaleFromRequest(c.Request); locale != "" {
			c.Set(contextkeys.LocaleKey, locale)
		}
		c.Next()
	}
}

// GetLocale возвращает локаль запроса, по умолчанию "en"
func GetLocale(c *gin.Context) string {
	if locale := c.GetString(contextkeys.LocaleKey); locale != "" {
		return locale
	}
	return i18n.DefaultLocale
}
