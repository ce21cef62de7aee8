package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"playhouse/internal/modules/feedback"
	"playhouse/internal/pkg/jwt"
	"playhouse/internal/pkg/response"
)

// SessionCookie holds the admin JWT for browser sessions.
const SessionCookie = "admin_session"

// AdminSession resolves the session cookie or a Bearer token into a
// moderator on the request. Requests without a valid admin token pass
// through unchanged.
func AdminSession(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err == nil && claims.Role == jwt.RoleAdmin {
			feedback.WithModerator(c, feedback.NewModerator(claims.Subject))
		}
		c.Next()
	}
}

// RequireAdminPage sends visitors without a session to the login page and
// brings them back afterwards.
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := feedback.ModeratorFrom(c); ok {
			c.Next()
			return
		}
		c.Redirect(http.StatusSeeOther, "/admin/login?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
	}
}

// RequireAdminAPI answers 401 when the request carries no admin session.
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := feedback.ModeratorFrom(c); !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin session required")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
