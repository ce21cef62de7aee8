package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pages serves the static marketing pages.
type Pages struct {
	render      *Renderer
	reviewsLink string
}

func NewPages(render *Renderer, reviewsLink string) *Pages {
	return &Pages{render: render, reviewsLink: reviewsLink}
}

func (p *Pages) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", p.Home)
	r.GET("/about", p.About)
	r.GET("/programs", p.Programs)
	r.GET("/thanks", p.Thanks)
	r.GET("/reviews", p.Reviews)
}

func (p *Pages) Home(c *gin.Context) {
	p.render.HTML(c, http.StatusOK, "home", "Home", nil)
}

func (p *Pages) About(c *gin.Context) {
	p.render.HTML(c, http.StatusOK, "about", "About", nil)
}

func (p *Pages) Programs(c *gin.Context) {
	p.render.HTML(c, http.StatusOK, "programs", "Programs", nil)
}

func (p *Pages) Thanks(c *gin.Context) {
	p.render.HTML(c, http.StatusOK, "thanks", "Thank You", nil)
}

func (p *Pages) Reviews(c *gin.Context) {
	p.render.HTML(c, http.StatusOK, "reviews", "Reviews", gin.H{"Link": p.reviewsLink})
}
