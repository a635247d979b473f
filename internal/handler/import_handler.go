package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/courseimport"
	"github.com/coursedesk/coursedesk-backend/internal/middleware"
	"github.com/coursedesk/coursedesk-backend/internal/response"
	"github.com/coursedesk/coursedesk-backend/internal/service"
)

// ImportHandler handles spreadsheet upload and validation.
type ImportHandler struct {
	importService *service.ImportService
	cfg           *config.Config
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService, cfg *config.Config) *ImportHandler {
	return &ImportHandler{importService: importService, cfg: cfg}
}

// UploadSheet godoc
// POST /api/v1/faculty/courses/import (multipart, field "file")
//
// Runs the whole validation pipeline over the uploaded workbook and returns
// the report. When fresh rows survive, the response carries a one-time
// import_token; starting an import wizard with that token is the explicit
// confirmation the pipeline requires.
func (h *ImportHandler) UploadSheet(c *gin.Context) {
	claims := middleware.GetClaims(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	report, token, err := h.importService.Prepare(c.Request.Context(), claims.FacultyID, file)
	if err != nil {
		var capErr *courseimport.CapacityError
		switch {
		case errors.Is(err, courseimport.ErrEmptySheet):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidSheet, "The sheet contains no data rows.")
		case errors.As(err, &capErr):
			response.FailWithMessage(c, http.StatusConflict, response.ErrCourseLimitReached, capErr.Error())
		default:
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidSheet)
		}
		return
	}

	body := gin.H{"report": report}
	if token != "" {
		body["import_token"] = token
	}
	response.Success(c, http.StatusOK, body)
}
