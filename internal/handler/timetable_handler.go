package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

const (
	uploadField          = "file"
	generatedMessage     = "Timetable generated successfully"
	processingFailPrefix = "Error processing file: "
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResult, error)
}

type uploadSaver interface {
	SaveUpload(originalName string, r io.Reader) (string, error)
}

// TimetableHandler accepts workload uploads and returns generated timetables.
type TimetableHandler struct {
	service  timetableGenerator
	uploads  uploadSaver
	maxBytes int64
}

// NewTimetableHandler constructs the handler. maxBytes caps the request body.
func NewTimetableHandler(svc *service.TimetableService, uploads uploadSaver, maxBytes int64) *TimetableHandler {
	return &TimetableHandler{service: svc, uploads: uploads, maxBytes: maxBytes}
}

// Upload godoc
// @Summary Generate a timetable from a workload sheet (legacy endpoint)
// @Description Original upload path. Prefer /api/v1/timetables/generate for new integrations.
// @Tags Timetables
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Faculty workload (.xlsx or .csv)"
// @Param format query string false "Response format" Enums(json, csv, pdf)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/upload [post]
func (h *TimetableHandler) Upload(c *gin.Context) {
	h.handleGenerate(c)
}

// GenerateAlias godoc
// @Summary Generate a timetable from a workload sheet (canonical alias)
// @Tags Timetables
// @Accept multipart/form-data
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Param file formData file true "Faculty workload (.xlsx or .csv)"
// @Param format query string false "Response format" Enums(json, csv, pdf)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Security BearerAuth
// @Router /api/v1/timetables/generate [post]
func (h *TimetableHandler) GenerateAlias(c *gin.Context) {
	h.handleGenerate(c)
}

func (h *TimetableHandler) handleGenerate(c *gin.Context) {
	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			response.Error(c, appErrors.ErrPayloadTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, appErrors.ErrPayloadTooLarge.Message))
			return
		}
		response.Error(c, appErrors.ErrNoFile)
		return
	}

	src, err := header.Open()
	if err != nil {
		h.fail(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read uploaded file"))
		return
	}
	defer src.Close() //nolint:errcheck

	stored, err := h.uploads.SaveUpload(header.Filename, src)
	if err != nil {
		h.fail(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store uploaded file"))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), dto.GenerateTimetableRequest{
		UploadName: stored,
		Filename:   header.Filename,
		Format:     dto.TimetableFormat(strings.ToLower(strings.TrimSpace(c.Query("format")))),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if result.File != nil {
		response.Attachment(c, result.File.ContentType, result.File.Filename, result.File.Payload)
		return
	}
	middleware.SetMeta(c, "message", generatedMessage)
	middleware.SetMeta(c, "id", result.ID)
	middleware.SetMeta(c, "stats", result.Stats)
	middleware.SetMeta(c, "workbook", result.Workbook)
	response.JSON(c, http.StatusOK, result.Timetable, middleware.ResponseMeta(c))
}

// fail reports a processing error with the message prefix clients match on.
func (h *TimetableHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	appErr := appErrors.FromError(err)
	response.Error(c, appErrors.Clone(appErr, processingFailPrefix+appErr.Message))
}
