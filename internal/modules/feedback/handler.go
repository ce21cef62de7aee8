package feedback

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"playhouse/internal/pkg/response"
	"playhouse/internal/web"
)

type Handler struct {
	svc    *Service
	render *web.Renderer
	log    *zap.Logger
}

func NewHandler(svc *Service, render *web.Renderer, log *zap.Logger) *Handler {
	return &Handler{svc: svc, render: render, log: log}
}

// --- HTML ---

func (h *Handler) FeedbackForm(c *gin.Context) {
	data := gin.H{}
	if c.Query("sent") != "" {
		data["Flash"] = "Thank you! Your feedback was received."
	}
	h.render.HTML(c, http.StatusOK, "feedback", "Leave Feedback", data)
}

// SubmitForm never shows an error page; a failed write is logged by the service.
func (h *Handler) SubmitForm(c *gin.Context) {
	in := SubmitInput{
		Name:          c.PostForm("name"),
		RatingRaw:     c.PostForm("rating"),
		Comment:       c.PostForm("comment"),
		CanPublishRaw: c.PostForm("can_publish"),
	}
	if rel, ok := c.GetPostForm("relationship"); ok {
		in.Relationship = &rel
	}

	_, _ = h.svc.Submit(c.Request.Context(), in)
	c.Redirect(http.StatusSeeOther, "/feedback?sent=1")
}

func (h *Handler) TestimonialsPage(c *gin.Context) {
	items, err := h.svc.Testimonials(c.Request.Context())
	if err != nil {
		h.log.Error("load testimonials", zap.Error(err))
		items = nil
	}
	h.render.HTML(c, http.StatusOK, "testimonials", "Testimonials", gin.H{"Testimonials": items})
}

func (h *Handler) AdminPage(c *gin.Context) {
	records, err := h.svc.All(c.Request.Context())
	if err != nil {
		h.log.Error("load feedback for admin", zap.Error(err))
		h.render.HTML(c, http.StatusInternalServerError, "admin_feedback", "Feedback Reviews", gin.H{
			"Flash": "Could not read the feedback file.",
		})
		return
	}

	rows := make([]adminRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, adminRow{Record: r, Stars: Stars(r.Rating)})
	}

	data := gin.H{"Records": rows, "Actions": actionButtons}
	switch {
	case c.Query("saved") != "":
		data["Flash"] = "Saved."
	case c.Query("error") != "":
		data["Flash"] = "Could not save changes."
	}
	h.render.HTML(c, http.StatusOK, "admin_feedback", "Feedback Reviews", data)
}

func (h *Handler) AdminAction(c *gin.Context) {
	mod, ok := ModeratorFrom(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/login?next=/admin/feedback")
		return
	}

	var req ModerationRequest
	_ = c.ShouldBind(&req)

	_, changed, err := h.svc.Moderate(c.Request.Context(), mod, req.ID, Action(req.Action))
	switch {
	case err != nil:
		h.log.Error("moderation failed", zap.String("id", req.ID), zap.String("action", req.Action), zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/admin/feedback?error=1")
	case changed:
		c.Redirect(http.StatusSeeOther, "/admin/feedback?saved=1")
	default:
		c.Redirect(http.StatusSeeOther, "/admin/feedback")
	}
}

// --- JSON ---

func (h *Handler) ListTestimonials(c *gin.Context) {
	items, err := h.svc.Testimonials(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Feedback store unavailable")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rec, err := h.svc.Submit(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Feedback could not be saved, please retry")
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

func (h *Handler) ListAll(c *gin.Context) {
	records, err := h.svc.All(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Feedback store unavailable")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"records": records, "total": len(records)})
}

// Moderate applies {id, action}. Unknown ids and actions are a successful no-op.
func (h *Handler) Moderate(c *gin.Context) {
	mod, ok := ModeratorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	items, changed, err := h.svc.Moderate(c.Request.Context(), mod, req.ID, Action(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		default:
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Feedback store unavailable")
		}
		return
	}
	response.Success(c, http.StatusOK, ModerationResponse{Changed: changed, Testimonials: items})
}
