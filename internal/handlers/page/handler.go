package page

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexTemplate = "index.html"

// Handler serves the browser page that talks to /weather.
type Handler struct {
	title string
}

func NewHandler(title string) *Handler {
	return &Handler{title: title}
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, gin.H{"title": h.title})
}
