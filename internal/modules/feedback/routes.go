package feedback

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPageRoutes(public, admin gin.IRoutes) {
	public.GET("/feedback", h.FeedbackForm)
	public.POST("/feedback", h.SubmitForm)
	public.GET("/testimonials", h.TestimonialsPage)

	admin.GET("/feedback", h.AdminPage)
	admin.POST("/feedback", h.AdminAction)
}

func (h *Handler) RegisterAPIRoutes(public, admin gin.IRoutes) {
	public.GET("/testimonials", h.ListTestimonials)
	public.POST("/feedback", h.Create)

	admin.GET("/feedback", h.ListAll)
	admin.POST("/feedback/actions", h.Moderate)
}
