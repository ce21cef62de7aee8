package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"playhouse/internal/middleware"
	"playhouse/internal/modules/admin"
	"playhouse/internal/modules/contact"
	"playhouse/internal/modules/events"
	"playhouse/internal/modules/feedback"
	"playhouse/internal/modules/rating"
	"playhouse/internal/pkg/jwt"
	"playhouse/internal/web"
)

type Deps struct {
	Log         *zap.Logger
	Version     string
	JWT         *jwt.Service
	Limiter     *middleware.IPRateLimiter
	CORSOrigins []string

	Pages    *web.Pages
	Feedback *feedback.Handler
	Contact  *contact.Handler
	Admin    *admin.Handler
	Events   *events.Handler
	Rating   *rating.Handler
}

func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Log),
		middleware.RequestLogger(d.Log),
		middleware.NoCache(),
		middleware.SecurityHeaders(),
		middleware.CORS(d.CORSOrigins),
		middleware.AdminSession(d.JWT),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": d.Version})
	})

	// HTML
	d.Pages.RegisterRoutes(r)
	d.Admin.RegisterPageRoutes(r.Group("/admin"))

	adminPages := r.Group("/admin", middleware.RequireAdminPage())
	d.Feedback.RegisterPageRoutes(r, adminPages)
	d.Contact.RegisterPageRoutes(r, adminPages)
	d.Events.RegisterRoutes(adminPages)

	// JSON
	api := r.Group("/api/v1", limitWrites(d.Limiter))
	d.Rating.RegisterRoutes(api)
	d.Admin.RegisterAPIRoutes(api.Group("/admin"))

	adminAPI := api.Group("/admin", middleware.RequireAdminAPI())
	d.Feedback.RegisterAPIRoutes(api, adminAPI)
	d.Contact.RegisterAPIRoutes(api, adminAPI)

	return r, nil
}

// limitWrites rate limits POSTs only; reads stay unlimited.
func limitWrites(rl *middleware.IPRateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := middleware.RateLimit(rl)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		limit(c)
	}
}
