package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"

	"playhouse/internal/modules/rating"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Site holds the business details shown on every page.
type Site struct {
	Brand     string
	ShortName string
	Locality  string
	Address   string
	Hours     string
	Phone     string
	PhoneHref string
	Email     string
	Version   string
}

func DefaultSite(version string) Site {
	return Site{
		Brand:     "Little Z’s Playhouse Daycare",
		ShortName: "Little Z’s Playhouse",
		Locality:  "Farmingdale, NY",
		Address:   "41 Lincoln St, Farmingdale, NY",
		Hours:     "Mon–Fri 7:30 a.m.–5:00 p.m. • Nap 1–3 p.m.",
		Phone:     "516-912-7375",
		PhoneHref: "tel:+15169127375",
		Email:     "littlezsplayhouse@gmail.com",
		Version:   version,
	}
}

type LogoSource interface {
	DataURL() (template.URL, bool)
}

type RatingSource interface {
	Fetch(ctx context.Context) *rating.Rating
}

// Templates parses the embedded page set for gin's SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("site").Funcs(template.FuncMap{
		"rating1": func(v *float64) string {
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%.1f", *v)
		},
		"count": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
		"yesno": func(b bool) string {
			if b {
				return "yes"
			}
			return "no"
		},
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// Renderer wraps gin's HTML rendering with the shared layout data.
type Renderer struct {
	site   Site
	logo   LogoSource
	rating RatingSource
}

func NewRenderer(site Site, logo LogoSource, rating RatingSource) *Renderer {
	return &Renderer{site: site, logo: logo, rating: rating}
}

func (r *Renderer) Site() Site { return r.site }

func (r *Renderer) HTML(c *gin.Context, status int, page, title string, data gin.H) {
	view := gin.H{
		"Page":  page,
		"Title": title,
		"Site":  r.site,
		"Data":  data,
	}
	if r.logo != nil {
		if u, ok := r.logo.DataURL(); ok {
			view["Logo"] = u
		}
	}
	if r.rating != nil {
		if g := r.rating.Fetch(c.Request.Context()); g != nil {
			view["Google"] = g
		}
	}
	c.HTML(status, page, view)
}
