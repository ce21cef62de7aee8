package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"playhouse/internal/pkg/response"
	"playhouse/internal/pkg/validator"
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

func (h *Handler) Form(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "contact", "Contact", nil)
}

// SubmitForm always lands on /thanks, including for bots and store failures.
func (h *Handler) SubmitForm(c *gin.Context) {
	var in FormInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.Warn("contact form bind", zap.Error(err))
	}
	_, _, _ = h.svc.Submit(c.Request.Context(), in)
	c.Redirect(http.StatusSeeOther, "/thanks")
}

func (h *Handler) AdminPage(c *gin.Context) {
	msgs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("list contact messages", zap.Error(err))
		h.render.HTML(c, http.StatusInternalServerError, "admin_messages", "Messages", gin.H{
			"Flash": "Could not load messages.",
		})
		return
	}
	h.render.HTML(c, http.StatusOK, "admin_messages", "Messages", gin.H{"Messages": msgs})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errs)
		return
	}

	msg, stored, err := h.svc.Submit(c.Request.Context(), FormInput(req))
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Message could not be saved, please retry")
		return
	}
	if !stored {
		// honeypot: look successful, keep nothing
		response.Success(c, http.StatusAccepted, gin.H{"received": true})
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) List(c *gin.Context) {
	msgs, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Contact store unavailable")
		return
	}
	response.Success(c, http.StatusOK, MessagesResponse{Messages: msgs, Total: len(msgs)})
}
