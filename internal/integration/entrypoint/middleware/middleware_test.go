package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/adapters"
	"github.com/trip-planner/backend/internal/integration/entrypoint/dto"
)

const testSecret = "middleware-test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(adapters.NewTokenService(testSecret)).Authenticate())
	r.GET("/whoami", func(c *gin.Context) {
		uid, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, uid)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := adapters.NewTokenService(testSecret)
	valid, err := tokens.GenerateAccessToken("uid-a", "alice@example.com", time.Minute)
	require.NoError(t, err)
	expired, err := tokens.GenerateAccessToken("uid-a", "alice@example.com", -time.Minute)
	require.NoError(t, err)
	foreign, err := adapters.NewTokenService("other-secret").GenerateAccessToken("uid-a", "alice@example.com", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   domainerror.AuthErrorCode
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: domainerror.ErrCodeMissingToken},
		{name: "not a bearer token", header: "Basic abc", status: http.StatusUnauthorized, code: domainerror.ErrCodeInvalidToken},
		{name: "empty bearer token", header: "Bearer ", status: http.StatusUnauthorized, code: domainerror.ErrCodeMissingToken},
		{name: "expired token", header: "Bearer " + expired, status: http.StatusUnauthorized, code: domainerror.ErrCodeExpiredToken},
		{name: "wrong signature", header: "Bearer " + foreign, status: http.StatusUnauthorized, code: domainerror.ErrCodeInvalidToken},
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK},
	}

	router := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "uid-a", w.Body.String())
				return
			}
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.code), body.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithConfig(2, time.Minute)
	limiter.disabled = false
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(string(UserIDKey), uid)
		}
		c.Next()
	})
	r.POST("/budgets", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/budgets", nil)
		req.Header.Set("X-Test-User", uid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, send("uid-a").Code)
	w := send("uid-a")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send("uid-a")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(domainerror.ErrCodeRateLimited), body.Code)

	t.Run("other users have their own window", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, send("uid-b").Code)
	})

	t.Run("window resets", func(t *testing.T) {
		now = now.Add(time.Minute)
		assert.Equal(t, http.StatusCreated, send("uid-a").Code)
	})
}

func TestRateLimiter_Prune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithConfig(1, time.Second)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= pruneThreshold; i++ {
		limiter.take(time.Duration(i).String())
	}
	now = now.Add(2 * time.Second)
	limiter.take("fresh")

	assert.Len(t, limiter.windows, 1)
}
