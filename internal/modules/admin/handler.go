package admin

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"playhouse/internal/middleware"
	"playhouse/internal/pkg/response"
	"playhouse/internal/pkg/validator"
	"playhouse/internal/web"
)

const defaultLanding = "/admin/messages"

type Handler struct {
	svc          *Service
	render       *web.Renderer
	cookieSecure bool
}

func NewHandler(svc *Service, render *web.Renderer, cookieSecure bool) *Handler {
	return &Handler{svc: svc, render: render, cookieSecure: cookieSecure}
}

func (h *Handler) LoginPage(c *gin.Context) {
	data := gin.H{}
	if next := safeNext(c.Query("next")); next != "" {
		data["Next"] = next
	}
	if c.Query("error") != "" {
		data["Flash"] = "Incorrect password."
	}
	h.render.HTML(c, http.StatusOK, "admin_login", "Admin Login", data)
}

func (h *Handler) Login(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if next == "" {
		next = safeNext(c.PostForm("next"))
	}

	token, err := h.svc.Login(c.Request.Context(), c.PostForm("password"))
	if err != nil {
		target := "/admin/login?error=1"
		if next != "" {
			target += "&next=" + url.QueryEscape(next)
		}
		c.Redirect(http.StatusSeeOther, target)
		return
	}

	h.setSession(c, token, int(h.svc.TTL().Seconds()))
	if next == "" {
		next = defaultLanding
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setSession(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) APILogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errs)
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.svc.TTL().Seconds()),
	})
}

func (h *Handler) setSession(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cookieSecure, true)
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
