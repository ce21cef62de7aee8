package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"playhouse/internal/middleware"
	"playhouse/internal/pkg/jwt"
	"playhouse/internal/web"
)

const testPassword = "letmein"

func setupRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	jwtService := jwt.New("test-secret", time.Hour)
	h := NewHandler(NewService(hash, jwtService, nil), web.NewRenderer(web.DefaultSite("test"), nil, nil), false)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	h.RegisterPageRoutes(r.Group("/admin"))
	h.RegisterAPIRoutes(r.Group("/api/v1/admin"))
	return r, jwtService
}

func login(r http.Handler, path, password string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(url.Values{"password": {password}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestLogin_SetsCookieAndRedirects(t *testing.T) {
	r, jwtService := setupRouter(t)

	w := login(r, "/admin/login", testPassword)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/messages", w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	claims, err := jwtService.ValidateToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestLogin_HonoursLocalNext(t *testing.T) {
	r, _ := setupRouter(t)

	w := login(r, "/admin/login?next="+url.QueryEscape("/admin/feedback"), testPassword)
	assert.Equal(t, "/admin/feedback", w.Header().Get("Location"))

	w = login(r, "/admin/login?next="+url.QueryEscape("https://evil.example/"), testPassword)
	assert.Equal(t, "/admin/messages", w.Header().Get("Location"))

	w = login(r, "/admin/login?next="+url.QueryEscape("//evil.example/"), testPassword)
	assert.Equal(t, "/admin/messages", w.Header().Get("Location"))
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := setupRouter(t)

	w := login(r, "/admin/login?next=%2Fadmin%2Ffeedback", "nope")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login?error=1&next=%2Fadmin%2Ffeedback", w.Header().Get("Location"))
	assert.Nil(t, sessionCookie(w))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/login?error=1", nil))
	assert.Contains(t, w.Body.String(), "Incorrect password.")
}

func TestLogout_ClearsCookie(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAPILogin(t *testing.T) {
	r, jwtService := setupRouter(t)

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"password":"` + testPassword + `"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Bearer", body.Data.TokenType)
	_, err := jwtService.ValidateToken(body.Data.AccessToken)
	assert.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, post(`{"password":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{}`).Code)
}

func TestPasswordHash(t *testing.T) {
	hash, err := PasswordHash("secret", "")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("secret")))

	existing, err := bcrypt.GenerateFromPassword([]byte("other"), bcrypt.MinCost)
	require.NoError(t, err)
	kept, err := PasswordHash("ignored", string(existing))
	require.NoError(t, err)
	assert.Equal(t, existing, kept)

	_, err = PasswordHash("", "not-a-bcrypt-hash")
	assert.Error(t, err)
}
