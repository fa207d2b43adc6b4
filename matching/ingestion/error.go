package ingestion

import (
	"net/http"

	"github.com/Abraxas-365/resumatch/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("UPLOAD")

var (
	CodeNoFile            = ErrRegistry.Register("NO_FILE", errx.TypeValidation, http.StatusBadRequest, "No file uploaded")
	CodeInvalidKind       = ErrRegistry.Register("INVALID_TYPE", errx.TypeValidation, http.StatusBadRequest, "type must be resume or jd")
	CodePayloadTooLarge   = ErrRegistry.Register("PAYLOAD_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File too large, maximum size is 5MB")
	CodeUnsupportedFormat = ErrRegistry.Register("UNSUPPORTED_FORMAT", errx.TypeValidation, http.StatusBadRequest, "File must be a PDF")
	CodeExtractionFailed  = ErrRegistry.Register("EXTRACTION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to extract text from PDF")
)

func ErrNoFile() *errx.Error {
	return ErrRegistry.New(CodeNoFile)
}

func ErrInvalidKind() *errx.Error {
	return ErrRegistry.New(CodeInvalidKind)
}

func ErrPayloadTooLarge() *errx.Error {
	return ErrRegistry.New(CodePayloadTooLarge)
}

func ErrUnsupportedFormat() *errx.Error {
	return ErrRegistry.New(CodeUnsupportedFormat)
}

func ErrExtractionFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeExtractionFailed, cause)
}
