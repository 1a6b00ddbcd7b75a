package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"masterhub_backend/internal/identity"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/ratelimit"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec = serve(r, req)
	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := serve(r, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// authRouter: Authenticate + RequireProfile + RequireRoles, отдает локаль и роль
func authRouter(db *gorm.DB, roles ...models.UserRole) *gin.Engine {
	verifier := identity.NewJWTVerifier(testutil.JWTSecret, "", testutil.JWTAudience)
	resolver := identity.NewProfileResolver(repositories.NewProfileRepository(), repositories.ErrProfileNotFound)

	r := gin.New()
	r.Use(DBMiddleware(db), LocaleMiddleware())
	chain := []gin.HandlerFunc{Authenticate(verifier), RequireProfile(resolver)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": role, "locale": GetLocale(c)})
	})
	r.GET("/me", chain...)
	return r
}

func TestAuthenticateAndRequireProfile(t *testing.T) {
	db := testutil.NewDB(t)
	profile := testutil.CreateProfile(t, db, models.UserRolePro, "th")
	token := testutil.Token(t, *profile.ExternalID, profile.Email)

	tests := []struct {
		name       string
		token      string
		query      string
		wantStatus int
		wantBody   string
	}{
		{"no token", "", "", http.StatusUnauthorized, `"UNAUTHORIZED"`},
		{"garbage token", "abc", "", http.StatusUnauthorized, `"INVALID_TOKEN"`},
		{"unknown principal", testutil.Token(t, "nobody", "nobody@test.com"), "", http.StatusForbidden, `"PROFILE_REQUIRED"`},
		{"profile locale", token, "", http.StatusOK, `"locale":"th"`},
		{"request locale wins", token, "?lang=ru", http.StatusOK, `"locale":"ru"`},
		{"query token", "", "?access_token=" + token, http.StatusOK, `"role":"pro"`},
	}

	r := authRouter(db)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := serve(r, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireProfile_LinksLegacyProfileByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	legacy := &models.Profile{Email: "legacy@test.com", DisplayName: "Legacy", Role: models.UserRoleClient, Locale: "en"}
	require.NoError(t, db.Create(legacy).Error)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, "new-ext-id", "Legacy@Test.com"))
	rec := serve(authRouter(db), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), legacy.ID)

	var linked models.Profile
	require.NoError(t, db.First(&linked, "id = ?", legacy.ID).Error)
	require.NotNil(t, linked.ExternalID)
	assert.Equal(t, "new-ext-id", *linked.ExternalID)
}

func TestRequireRoles(t *testing.T) {
	db := testutil.NewDB(t)
	client := testutil.CreateProfile(t, db, models.UserRoleClient, "en")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, *client.ExternalID, client.Email))
	rec := serve(authRouter(db, models.UserRolePro), req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRateLimit(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	limiter := ratelimit.NewLimiter(client, "test")

	newRouter := func(policy ratelimit.Policy) *gin.Engine {
		r := gin.New()
		r.POST("/", RateLimit(limiter, policy, nil), func(c *gin.Context) { c.Status(http.StatusCreated) })
		return r
	}

	t.Run("blocks after limit", func(t *testing.T) {
		r := newRouter(ratelimit.Policy{Name: "burst", Limit: 2, Window: time.Minute, FailOpen: true})

		for i := 0; i < 2; i++ {
			rec := serve(r, httptest.NewRequest(http.MethodPost, "/", nil))
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := serve(r, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), `"success":false`)

		// новое окно
		mr.FastForward(time.Minute)
		rec = serve(r, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("cache down", func(t *testing.T) {
		open := newRouter(ratelimit.Policy{Name: "open", Limit: 1, Window: time.Minute, FailOpen: true})
		closed := newRouter(ratelimit.Policy{Name: "closed", Limit: 1, Window: time.Minute, FailOpen: false})

		mr.Close()

		rec := serve(open, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = serve(closed, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	})
}
