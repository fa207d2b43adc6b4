package ingestion

import (
	"mime"
	"path/filepath"
	"strings"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	DefaultMaxBytes int64 = 5 * 1024 * 1024
)

// Upload is a received file held in memory
type Upload struct {
	FileName string
	MIMEType string
	Size     int64
	Data     []byte
}

// Policy is the set of constraints checked before any parser runs
type Policy struct {
	MaxBytes  int64
	AllowDOCX bool
}

func DefaultPolicy() Policy {
	return Policy{MaxBytes: DefaultMaxBytes}
}

// Check rejects oversized uploads first, then unsupported types
func (p Policy) Check(size int64, mimeType string) error {
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if size > limit {
		return ErrPayloadTooLarge().WithDetail("max_bytes", limit).WithDetail("size", size)
	}

	switch NormalizeMIME(mimeType) {
	case MIMEPDF:
		return nil
	case MIMEDOCX:
		if p.AllowDOCX {
			return nil
		}
	}
	return ErrUnsupportedFormat().WithDetail("mime_type", mimeType)
}

// NormalizeMIME drops parameters and lower-cases the media type
func NormalizeMIME(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}

// Extension returns the canonical file extension for a supported type
func Extension(mimeType, fileName string) string {
	switch NormalizeMIME(mimeType) {
	case MIMEPDF:
		return ".pdf"
	case MIMEDOCX:
		return ".docx"
	}
	return strings.ToLower(filepath.Ext(fileName))
}
