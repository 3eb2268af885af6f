package handler

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/index.html
var templateFS embed.FS

var landingTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// LandingPage is the data rendered into the index template.
type LandingPage struct {
	Title         string
	DefaultVision string
	SampleVideo   string
}

type LandingHandler struct {
	page LandingPage
}

func NewLandingHandler(page LandingPage) *LandingHandler {
	return &LandingHandler{page: page}
}

// Index handles GET /
func (h *LandingHandler) Index(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := landingTemplate.Execute(&buf, h.page); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
