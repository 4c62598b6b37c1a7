package announcement

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts announcement operations on the router. cacheTTL feeds
// the Cache-Control hint on public reads.
func RegisterRoutes(router gin.IRoutes, service *Service, cacheTTL time.Duration, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	handler := &httpHandler{
		service:      service,
		log:          log,
		cacheControl: fmt.Sprintf("public, max-age=%d", int(cacheTTL.Seconds())),
	}
	router.GET("/announcements", handler.list)
	router.GET("/announcements/:id", handler.get)
	router.POST("/announcements", handler.create)
	router.PUT("/announcements/:id", handler.update)
	router.DELETE("/announcements/:id", handler.delete)
}

type httpHandler struct {
	service      *Service
	log          *zap.Logger
	cacheControl string
}

type mutationRequest struct {
	Title       string            `json:"title"`
	Content     Content           `json:"content"`
	Attachments []attachment.Meta `json:"attachments"`
	Password    string            `json:"password"`
}

func (r mutationRequest) input() Input {
	return Input{Title: r.Title, Content: r.Content, Attachments: r.Attachments}
}

func (h *httpHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Cache-Control", h.cacheControl)
	c.JSON(http.StatusOK, list)
}

func (h *httpHandler) get(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Cache-Control", h.cacheControl)
	c.JSON(http.StatusOK, a)
}

func (h *httpHandler) create(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	a, err := h.service.Create(c.Request.Context(), req.Password, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *httpHandler) update(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	a, err := h.service.Update(c.Request.Context(), req.Password, c.Param("id"), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *httpHandler) delete(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.Password, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bind decodes the body. An empty body decodes to the zero request so the
// password check still runs and answers 401.
func (h *httpHandler) bind(c *gin.Context) (mutationRequest, bool) {
	var req mutationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return mutationRequest{}, false
	}
	return req, true
}

func (h *httpHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
	default:
		logger.With(c, h.log).Error("announcement request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
