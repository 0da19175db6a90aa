package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jaineet17/AWS-File-Processing-System/internal/common"
	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/ingest"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/models"
)

// Ingester is the ingestion service as seen by the HTTP layer.
type Ingester interface {
	Ingest(ctx context.Context, body ingest.Body) (string, error)
	Lookup(ctx context.Context, id string) (*models.IngestionRecord, error)
	Content(ctx context.Context, id string) ([]byte, error)
}

// IngestResponse is the success body.
type IngestResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse is the failure body.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type IngestHandler struct {
	service Ingester
	logger  logging.Logger
}

func NewIngestHandler(logger logging.Logger, service Ingester) *IngestHandler {
	return &IngestHandler{
		service: service,
		logger:  logger.With("handler", "ingest"),
	}
}

func (h *IngestHandler) Register(e *echo.Echo) {
	e.POST("/", h.Ingest)
	e.POST("/ingest", h.Ingest)
	e.GET("/records/:id", h.GetRecord)
	e.GET("/records/:id/content", h.GetContent)
}

// Ingest accepts {"inputText","fileContent"} either as a JSON object or as a
// JSON string holding the encoded object. Every failure is a 400 with the
// cause in "error".
func (h *IngestHandler) Ingest(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.fail(c, common.NewValidationError(common.InvalidBodyFormat))
	}

	id, err := h.service.Ingest(ctx, ingest.DecodeBody(payload))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, IngestResponse{Message: common.MessageProcessingStarted, ID: id})
}

func (h *IngestHandler) fail(c echo.Context, err error) error {
	if !common.IsClientVisible(err) {
		h.logger.Error(c.Request().Context(), "unexpected ingestion failure", "error", err)
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Message: common.MessageProcessingFailed,
		Error:   err.Error(),
	})
}

// GetRecord returns the stored record for :id.
func (h *IngestHandler) GetRecord(c echo.Context) error {
	record, err := h.service.Lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Record not found", Error: err.Error()})
		}
		h.logger.Error(c.Request().Context(), "record lookup failed", "id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error reading record", Error: err.Error()})
	}
	return c.JSON(http.StatusOK, record)
}

// GetContent streams back the file stored for :id.
func (h *IngestHandler) GetContent(c echo.Context) error {
	data, err := h.service.Content(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Record not found", Error: err.Error()})
		}
		h.logger.Error(c.Request().Context(), "content read failed", "id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error reading record", Error: err.Error()})
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}
