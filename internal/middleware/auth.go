package middleware

import (
	"errors"
	"strings"

	"masterhub_backend/internal/identity"
	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/models"
	"masterhub_backend/pkg/apperrors"
	"masterhub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// tokenFromRequest: заголовок Authorization, для websocket - ?access_token
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("access_token")
}

// Authenticate проверяет токен провайдера и кладет принципала в контекст
func Authenticate(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "token verification failed", "error", err.Error())
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(contextkeys.PrincipalKey, principal)
		c.Next()
	}
}

// RequireProfile сопоставляет принципала с профилем; без профиля - PROFILE_REQUIRED
func RequireProfile(resolver identity.ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}

		profile, err := identity.Resolve(c.Request.Context(), dbFrom(c), resolver, principal)
		if err != nil {
			if errors.Is(err, identity.ErrProfileNotFound) {
				apperrors.HandleError(c, apperrors.ErrProfileRequired)
				return
			}
			apperrors.HandleError(c, apperrors.InternalError(err))
			return
		}

		setProfile(c, profile)
		c.Next()
	}
}

// OptionalProfile для публичных маршрутов: при валидном токене и существующем
// профиле ведет себя как RequireProfile, иначе пропускает анонимно
func OptionalProfile(verifier identity.Verifier, resolver identity.ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}
		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(contextkeys.PrincipalKey, principal)

		if profile, err := identity.Resolve(c.Request.Context(), dbFrom(c), resolver, principal); err == nil {
			setProfile(c, profile)
		}
		c.Next()
	}
}

func setProfile(c *gin.Context, profile *models.Profile) {
	c.Set(contextkeys.UserIDKey, profile.ID)
	c.Set(contextkeys.RoleKey, profile.Role)
	if c.GetString(contextkeys.LocaleKey) == "" {
		c.Set(contextkeys.LocaleKey, profile.Locale)
	}
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), profile.ID))
}

// RequireRoles пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID профиля из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func GetRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return "", false
	}
	role, ok := roleVal.(models.UserRole)
	return role, ok
}

func GetPrincipal(c *gin.Context) *identity.Principal {
	v, exists := c.Get(contextkeys.PrincipalKey)
	if !exists {
		return nil
	}
	p, _ := v.(*identity.Principal)
	return p
}

func dbFrom(c *gin.Context) *gorm.DB {
	if db, ok := c.Get(string(contextkeys.DBContextKey)); ok {
		if gdb, ok := db.(*gorm.DB); ok {
			return gdb.WithContext(c.Request.Context())
		}
	}
	panic("database connection not found in context")
}
