package api

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/MilchZocker/UCC-DreamPacket/internal/canvas"
	"github.com/MilchZocker/UCC-DreamPacket/internal/clientid"
	"github.com/MilchZocker/UCC-DreamPacket/internal/dream"
)

// Handler wires the HTTP routes to the canvas orchestrator. Every route
// answers with a video artifact; failures degrade to the current or default
// artifact instead of error responses.
type Handler struct {
	dreams *dream.Service
}

// NewHandler constructs a Handler instance.
func NewHandler(service *dream.Service) *Handler {
	return &Handler{dreams: service}
}

// RegisterRoutes attaches all HTTP routes to the router. The image route
// shares the :instruction segment because gin's tree cannot mix a static
// and a param segment at the same position; the handler checks the literal.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/dream", h.currentVideo)
	router.GET("/dream/:instruction", h.runInstruction)
	router.GET("/dream/:instruction/:name", h.compositeImage)
}

func (h *Handler) clientKey(c *gin.Context) string {
	return clientid.Hash(c.ClientIP())
}

func (h *Handler) currentVideo(c *gin.Context) {
	result, err := h.dreams.CurrentVideo(c.Request.Context(), h.clientKey(c))
	if err != nil {
		log.Printf("current video: %v", err)
	}
	h.serveVideo(c, result)
}

func (h *Handler) runInstruction(c *gin.Context) {
	result, err := h.dreams.Execute(c.Request.Context(), h.clientKey(c), c.Param("instruction"))
	if err != nil {
		log.Printf("instruction %q: %v", c.Param("instruction"), err)
	}
	h.serveVideo(c, result)
}

func (h *Handler) compositeImage(c *gin.Context) {
	key := h.clientKey(c)
	if c.Param("instruction") != "image" {
		result, err := h.dreams.CurrentVideo(c.Request.Context(), key)
		if err != nil {
			log.Printf("current video: %v", err)
		}
		h.serveVideo(c, result)
		return
	}
	result, err := h.dreams.CompositeImage(c.Request.Context(), key, c.Param("name"))
	if err != nil {
		log.Printf("composite image %q: %v", c.Param("name"), err)
	}
	h.serveVideo(c, result)
}

// serveVideo writes the artifact as a whole-file binary response with the
// fixed MIME type, falling back to the process default if the resolved
// artifact cannot be read.
func (h *Handler) serveVideo(c *gin.Context, result dream.Result) {
	data, err := os.ReadFile(result.VideoPath)
	if err != nil {
		data, err = os.ReadFile(h.dreams.DefaultVideo())
		if err != nil {
			log.Printf("default video unreadable: %v", err)
			c.Status(http.StatusNotFound)
			return
		}
	}
	c.Data(http.StatusOK, canvas.VideoMIME, data)
}
