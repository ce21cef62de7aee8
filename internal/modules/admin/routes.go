package admin

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPageRoutes(r gin.IRoutes) {
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
}

func (h *Handler) RegisterAPIRoutes(r gin.IRoutes) {
	r.POST("/login", h.APILogin)
}
