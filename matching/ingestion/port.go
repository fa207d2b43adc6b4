package ingestion

import (
	"context"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// Extractor turns a document into plain text
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

// PageTranscriber reads rendered page images back into text
type PageTranscriber interface {
	TranscribePages(ctx context.Context, pages [][]byte) (string, error)
}

// AnalysisRecorder appends an uploaded document as a new analysis
type AnalysisRecorder interface {
	RecordUpload(ctx context.Context, userID kernel.UserID, kind analysis.DocumentKind, doc analysis.Document) (kernel.AnalysisID, error)
}
