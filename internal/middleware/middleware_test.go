package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"playhouse/internal/modules/feedback"
	"playhouse/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	m, ok := feedback.ModeratorFrom(c)
	c.JSON(http.StatusOK, gin.H{"admin": ok, "subject": m.Subject()})
}

func TestAdminSession_Cookie(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, err := jwtService.GenerateToken("admin", jwt.RoleAdmin)
	require.NoError(t, err)

	router := gin.New()
	router.Use(AdminSession(jwtService))
	router.GET("/whoami", whoami)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":true,"subject":"admin"}`, w.Body.String())
}

func TestAdminSession_Bearer(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, err := jwtService.GenerateToken("api", jwt.RoleAdmin)
	require.NoError(t, err)

	router := gin.New()
	router.Use(AdminSession(jwtService))
	router.GET("/whoami", whoami)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.JSONEq(t, `{"admin":true,"subject":"api"}`, w.Body.String())
}

func TestAdminSession_InvalidTokens(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	otherRole, err := jwtService.GenerateToken("someone", "guest")
	require.NoError(t, err)
	foreign, err := jwt.New("other-secret", time.Hour).GenerateToken("admin", jwt.RoleAdmin)
	require.NoError(t, err)

	router := gin.New()
	router.Use(AdminSession(jwtService))
	router.GET("/whoami", whoami)

	for _, header := range []string{"", "Bearer garbage", "Bearer " + otherRole, "Bearer " + foreign, "Basic dGVzdA=="} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		assert.JSONEq(t, `{"admin":false,"subject":""}`, w.Body.String(), "header %q", header)
	}
}

func TestRequireAdminPage_Redirects(t *testing.T) {
	router := gin.New()
	router.GET("/admin/feedback", RequireAdminPage(), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/feedback", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Ffeedback", w.Header().Get("Location"))
}

func TestRequireAdminAPI_Unauthorized(t *testing.T) {
	router := gin.New()
	router.GET("/api", RequireAdminAPI(), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)

	router := gin.New()
	router.POST("/submit", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.Limiter("10.0.0.1")

	assert.Equal(t, 0, limiter.Cleanup(time.Hour))
	assert.Equal(t, 1, limiter.Cleanup(-time.Second))
}

func TestHeaders(t *testing.T) {
	router := gin.New()
	router.Use(NoCache(), SecurityHeaders(), RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "no-store, no-cache, must-revalidate, max-age=0", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Equal(t, "0", w.Header().Get("Expires"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "img-src 'self' data:")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, requestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestErrorLogger_RecoversPanic(t *testing.T) {
	router := gin.New()
	router.Use(ErrorLogger(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestCORS_AllowedOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://example.com"}))
	router.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
