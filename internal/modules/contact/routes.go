package contact

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPageRoutes(public, admin gin.IRoutes) {
	public.GET("/contact", h.Form)
	public.POST("/contact", h.SubmitForm)

	admin.GET("/messages", h.AdminPage)
}

func (h *Handler) RegisterAPIRoutes(public, admin gin.IRoutes) {
	public.POST("/contact", h.Create)

	admin.GET("/messages", h.List)
}
