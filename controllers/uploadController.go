package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"mangrove-be/apperrors"
	"mangrove-be/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipart framing allowance on top of the file size limit
const formOverhead = 1 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
}

// UploadController stores report photos.
type UploadController struct {
	storage  storage.Storage
	maxBytes int64
	logger   *zap.Logger
	now      func() time.Time
}

func NewUploadController(store storage.Storage, maxBytes int64, logger *zap.Logger) *UploadController {
	return &UploadController{
		storage:  store,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// UploadPhoto accepts a multipart "photo" (or "file") part and returns the
// URL it is served from.
func (uc *UploadController) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxBytes+formOverhead)

	fileHeader, err := formFile(c, "photo", "file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, uc.tooLarge())
			return
		}
		respondError(c, apperrors.Upload("No file uploaded"))
		return
	}
	if fileHeader.Size > uc.maxBytes {
		respondError(c, uc.tooLarge())
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		uc.internalError(c, "failed to open uploaded file", err)
		return
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		uc.internalError(c, "failed to read uploaded file", err)
		return
	}
	head = head[:n]
	if n == 0 {
		respondError(c, apperrors.Upload("Uploaded file is empty"))
		return
	}

	contentType := detectImageType(head, fileHeader.Header.Get("Content-Type"))
	if contentType == "" {
		respondError(c, apperrors.Upload("Only JPEG, PNG, WebP, GIF or HEIC images are accepted"))
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		uc.internalError(c, "failed to rewind uploaded file", err)
		return
	}

	name := storage.ObjectName(fileHeader.Filename, uc.now())
	url, err := uc.storage.Save(c.Request.Context(), name, contentType, src, fileHeader.Size)
	if err != nil {
		uc.internalError(c, "failed to store upload", err, zap.String("name", name))
		return
	}

	uc.logger.Info("Photo uploaded", zap.String("name", name), zap.Int64("size", fileHeader.Size))
	c.JSON(http.StatusCreated, gin.H{"success": true, "photoUrl": url})
}

// internalError logs an unexpected upload failure and answers with the
// generic internal error body.
func (uc *UploadController) internalError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	uc.logger.Error(msg, append(fields, zap.Error(err))...)
	respondError(c, apperrors.Internal(msg, err))
}

func (uc *UploadController) tooLarge() error {
	return apperrors.Upload(fmt.Sprintf("File exceeds the %d byte limit", uc.maxBytes))
}

func formFile(c *gin.Context, fields ...string) (*multipart.FileHeader, error) {
	var lastErr error
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if err == nil {
			return fh, nil
		}
		lastErr = err
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
	}
	return nil, lastErr
}

// detectImageType sniffs the content, falling back to the declared type
// for formats the sniffer does not know (HEIC).
func detectImageType(head []byte, declared string) string {
	sniffed := http.DetectContentType(head)
	if allowedImageTypes[sniffed] {
		return sniffed
	}
	if sniffed == "application/octet-stream" && allowedImageTypes[declared] {
		return declared
	}
	return ""
}
