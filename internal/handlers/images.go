package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// MaxImageSize is the largest accepted upload in bytes
const MaxImageSize = 10 << 20

// UploadImage stores a featured or inline image for the caller
// POST /api/v1/images/upload (multipart: file, fileName)
func (h *Handlers) UploadImage(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	if h.uploader == nil {
		util.RespondWithAPIError(c, errors.ServiceUnavailable("image storage"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.RespondBadRequest(c, "file", "file is required")
		return
	}
	if fileHeader.Size > MaxImageSize {
		util.RespondBadRequest(c, "file", "image exceeds 10MB")
		return
	}

	fileName := c.PostForm("fileName")
	if fileName == "" {
		fileName = fileHeader.Filename
	}
	if err := util.ValidateFilename(fileName); err != nil {
		util.RespondBadRequest(c, "fileName", err.Error())
		return
	}
	if !util.IsValidImageFile(fileName) {
		util.RespondBadRequest(c, "fileName", "unsupported image type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.RespondInternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		util.RespondInternalError(c, "failed to read upload")
		return
	}
	if len(data) > MaxImageSize {
		util.RespondBadRequest(c, "file", "image exceeds 10MB")
		return
	}

	result, err := h.uploader.UploadImage(c.Request.Context(), data, user.ID, fileName)
	metrics.RecordImageUpload(err)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     result.URL,
		"file_id": result.FileID,
		"width":   result.Width,
		"height":  result.Height,
		"size":    result.Size,
		"name":    result.Name,
	})
}
