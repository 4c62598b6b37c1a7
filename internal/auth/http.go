package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the password check used by the admin screens.
func RegisterRoutes(router gin.IRoutes, verifier Verifier, limit gin.HandlerFunc) {
	handler := &httpHandler{verifier: verifier}
	if limit == nil {
		router.POST("/auth/verify", handler.verify)
		return
	}
	router.POST("/auth/verify", limit, handler.verify)
}

type httpHandler struct {
	verifier Verifier
}

type verifyRequest struct {
	Password string `json:"password"`
}

func (h *httpHandler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrMissingSecret.Error()})
		return
	}

	if err := h.verifier.Verify(req.Password); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
