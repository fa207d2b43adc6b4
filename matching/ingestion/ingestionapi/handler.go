package ingestionapi

import (
	"io"
	"mime/multipart"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/ingestion"
	"github.com/Abraxas-365/resumatch/matching/ingestion/ingestionsrv"
	"github.com/Abraxas-365/resumatch/matching/user/userauth"
	"github.com/gofiber/fiber/v2"
)

const formField = "file"

type Handlers struct {
	service *ingestionsrv.IngestionService
}

func NewHandlers(service *ingestionsrv.IngestionService) *Handlers {
	return &Handlers{service: service}
}

// ExtractText extracts an uploaded file and records it as a new analysis
// POST /api/upload/extract-text?type=resume|jd
func (h *Handlers) ExtractText(c *fiber.Ctx) error {
	userID, err := userauth.MustUserID(c)
	if err != nil {
		return err
	}

	kind, err := parseKind(c.Query("type"))
	if err != nil {
		return err
	}

	up, err := h.readUpload(c)
	if err != nil {
		return err
	}

	resp, err := h.service.ExtractAndRecord(c.UserContext(), userID, kind, up)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ExtractTextOnly extracts an uploaded file without saving it
// POST /api/upload/extract-text-only
func (h *Handlers) ExtractTextOnly(c *fiber.Ctx) error {
	up, err := h.readUpload(c)
	if err != nil {
		return err
	}

	resp, err := h.service.ExtractOnly(c.UserContext(), up)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// parseKind defaults an empty type to resume
func parseKind(q string) (analysis.DocumentKind, error) {
	if q == "" {
		return analysis.KindResume, nil
	}
	kind, ok := analysis.ParseDocumentKind(q)
	if !ok {
		return "", ingestion.ErrInvalidKind().WithDetail("type", q)
	}
	return kind, nil
}

// readUpload enforces the policy on the multipart header before reading the body
func (h *Handlers) readUpload(c *fiber.Ctx) (ingestion.Upload, error) {
	fh, err := c.FormFile(formField)
	if err != nil {
		return ingestion.Upload{}, ingestion.ErrNoFile()
	}

	mimeType := fh.Header.Get(fiber.HeaderContentType)
	if err := h.service.Policy().Check(fh.Size, mimeType); err != nil {
		return ingestion.Upload{}, err
	}

	data, err := readAll(fh)
	if err != nil {
		return ingestion.Upload{}, ingestion.ErrExtractionFailed(err)
	}

	return ingestion.Upload{
		FileName: fh.Filename,
		MIMEType: mimeType,
		Size:     fh.Size,
		Data:     data,
	}, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// RegisterRoutes registers upload routes. Every route requires authentication.
func RegisterRoutes(
	router fiber.Router,
	handlers *Handlers,
	authMiddleware fiber.Handler,
) {
	upload := router.Group("/api/upload")
	upload.Post("/extract-text", authMiddleware, handlers.ExtractText)
	upload.Post("/extract-text-only", authMiddleware, handlers.ExtractTextOnly)
}
