package ingestionsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/resumatch/internal/pdf"
	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/ingestion"
	"github.com/Abraxas-365/resumatch/pkg/fsx"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/Abraxas-365/resumatch/pkg/logx"
	"github.com/google/uuid"
)

// MaxOCRPages bounds how many pages are rendered for transcription
const MaxOCRPages = 5

// IngestionService validates uploads and extracts their text
type IngestionService struct {
	policy      ingestion.Policy
	pdf         ingestion.Extractor
	docx        ingestion.Extractor
	recorder    ingestion.AnalysisRecorder
	files       fsx.FileSystem
	transcriber ingestion.PageTranscriber
	render      func(data []byte, maxPages int) ([][]byte, error)
}

// NewIngestionService creates a new ingestion service. docxExtractor, files
// and transcriber are optional.
func NewIngestionService(
	policy ingestion.Policy,
	pdfExtractor ingestion.Extractor,
	docxExtractor ingestion.Extractor,
	recorder ingestion.AnalysisRecorder,
	files fsx.FileSystem,
	transcriber ingestion.PageTranscriber,
) *IngestionService {
	return &IngestionService{
		policy:      policy,
		pdf:         pdfExtractor,
		docx:        docxExtractor,
		recorder:    recorder,
		files:       files,
		transcriber: transcriber,
		render:      pdf.ConvertPDFToImages,
	}
}

// Policy exposes the upload constraints so transports can reject early
func (s *IngestionService) Policy() ingestion.Policy {
	return s.policy
}

// ExtractText checks the upload against the policy and returns its text.
// Nothing is parsed when the check fails.
func (s *IngestionService) ExtractText(ctx context.Context, up ingestion.Upload) (string, error) {
	size := up.Size
	if n := int64(len(up.Data)); n > size {
		size = n
	}
	if err := s.policy.Check(size, up.MIMEType); err != nil {
		return "", err
	}

	mimeType := ingestion.NormalizeMIME(up.MIMEType)
	extractor := s.pdf
	if mimeType == ingestion.MIMEDOCX {
		extractor = s.docx
	}
	if extractor == nil {
		return "", ingestion.ErrUnsupportedFormat().WithDetail("mime_type", up.MIMEType)
	}

	text, err := extractor.ExtractText(up.Data)
	if err != nil {
		logx.Errorf("Error extracting text from %s: %v", up.FileName, err)
		return "", ingestion.ErrExtractionFailed(err)
	}

	if strings.TrimSpace(text) == "" && mimeType == ingestion.MIMEPDF && s.transcriber != nil {
		text = s.transcribe(ctx, up)
	}
	return text, nil
}

// transcribe is best effort; an empty string is returned on failure
func (s *IngestionService) transcribe(ctx context.Context, up ingestion.Upload) string {
	pages, err := s.render(up.Data, MaxOCRPages)
	if err != nil {
		logx.Warnf("failed to render %s for OCR: %v", up.FileName, err)
		return ""
	}
	text, err := s.transcriber.TranscribePages(ctx, pages)
	if err != nil {
		logx.Warnf("failed to transcribe %s: %v", up.FileName, err)
		return ""
	}
	return text
}

// ExtractOnly extracts text without persisting anything
func (s *IngestionService) ExtractOnly(ctx context.Context, up ingestion.Upload) (*ingestion.ExtractOnlyResponse, error) {
	text, err := s.ExtractText(ctx, up)
	if err != nil {
		return nil, err
	}
	return &ingestion.ExtractOnlyResponse{Text: text}, nil
}

// ExtractAndRecord extracts text, stores the original file and appends a new
// analysis holding the text in the slot named by kind.
func (s *IngestionService) ExtractAndRecord(ctx context.Context, userID kernel.UserID, kind analysis.DocumentKind, up ingestion.Upload) (*ingestion.ExtractResponse, error) {
	text, err := s.ExtractText(ctx, up)
	if err != nil {
		return nil, err
	}

	doc := analysis.Document{
		Text:       text,
		FileURL:    s.storeOriginal(ctx, userID, kind, up),
		FileType:   ingestion.NormalizeMIME(up.MIMEType),
		FileName:   up.FileName,
		UploadedAt: time.Now().UTC(),
	}

	id, err := s.recorder.RecordUpload(ctx, userID, kind, doc)
	if err != nil {
		return nil, err
	}

	return &ingestion.ExtractResponse{
		Text:       text,
		Message:    "Text extracted and saved successfully",
		AnalysisID: id,
	}, nil
}

// storeOriginal returns "" when no storage is configured or the write fails
func (s *IngestionService) storeOriginal(ctx context.Context, userID kernel.UserID, kind analysis.DocumentKind, up ingestion.Upload) kernel.FileURL {
	if s.files == nil {
		return ""
	}

	p := s.files.Join(userID.String(), string(kind), uuid.NewString()+ingestion.Extension(up.MIMEType, up.FileName))
	if err := s.files.WriteFile(ctx, p, up.Data); err != nil {
		logx.Warnf("failed to store %s for %s: %v", up.FileName, userID, err)
		return ""
	}
	return kernel.FileURL(s.files.URL(p))
}
