package attachment

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipart framing allowance on top of the file ceiling
const multipartOverhead = 1 << 20

// RegisterRoutes mounts upload operations on the router.
func RegisterRoutes(router gin.IRoutes, service *Service, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	handler := &httpHandler{service: service, log: log}
	router.POST("/upload", handler.uploadAttachment)
	router.POST("/upload/image", handler.uploadImage)
	router.DELETE("/upload", handler.remove)
}

type httpHandler struct {
	service *Service
	log     *zap.Logger
}

type removeRequest struct {
	Password string `json:"password"`
	FileName string `json:"fileName"`
}

func (h *httpHandler) uploadAttachment(c *gin.Context) {
	h.handleUpload(c, h.service.MaxAttachmentBytes(), h.service.Upload)
}

func (h *httpHandler) uploadImage(c *gin.Context) {
	h.handleUpload(c, MaxImageBytes, h.service.UploadImage)
}

func (h *httpHandler) handleUpload(c *gin.Context, limit int64, upload func(context.Context, string, File) (Meta, error)) {
	password := c.Query("password")
	if err := h.service.Authorize(password); err != nil {
		h.writeError(c, err)
		return
	}

	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, ErrFileTooLarge)
			return
		}
		h.writeError(c, ErrMissingFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, ErrMissingFile)
		return
	}
	defer file.Close()

	contentType, err := partContentType(fileHeader, file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	meta, err := upload(c.Request.Context(), password, File{
		Name: fileHeader.Filename,
		Type: contentType,
		Size: fileHeader.Size,
		Body: file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (h *httpHandler) remove(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.Remove(c.Request.Context(), req.Password, req.FileName); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *httpHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.With(c, h.log).Error("object store request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})
	}
}

// partContentType trusts the part header and sniffs the bytes only when it is absent.
func partContentType(fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		return ct, nil
	}
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", ErrMissingFile
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return detected.String(), nil
}
