package middleware

import (
	"math"
	"strconv"

	"masterhub_backend/internal/ratelimit"
	"masterhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// KeyFunc выбирает, по чему считать запросы
type KeyFunc func(c *gin.Context) string

// ProfileOrIP - профиль для аутентифицированных, иначе IP клиента
func ProfileOrIP(c *gin.Context) string {
	if id := GetUserID(c); id != "" {
		return "p:" + id
	}
	if p := GetPrincipal(c); p != nil {
		return "x:" + p.ExternalID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit ограничивает маршрут политикой фиксированного окна
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, keyFunc KeyFunc) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = ProfileOrIP
	}

	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), keyFunc(c), policy)

		c.Header("X-RateLimit-Limit", strconv.FormatInt(policy.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if err != nil || !decision.Allowed {
			retry := int64(math.Ceil(decision.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retry, 10))

			appErr := apperrors.RateLimited(policy.Name)
			if err != nil {
				// кэш недоступен, а политика fail-closed
				appErr = appErr.WithError(err)
			}
			apperrors.HandleError(c, appErr)
			return
		}
		c.Next()
	}
}
