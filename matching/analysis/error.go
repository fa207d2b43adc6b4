package analysis

import (
	"net/http"

	"github.com/Abraxas-365/resumatch/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ANALYSIS")

var (
	CodeInvalidRequest       = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeMissingTexts         = ErrRegistry.Register("MISSING_TEXTS", errx.TypeValidation, http.StatusBadRequest, "Both resume and job description text are required")
	CodeMissingSkills        = ErrRegistry.Register("MISSING_SKILLS", errx.TypeValidation, http.StatusBadRequest, "At least one missing skill is required")
	CodeNoCurrentAnalysis    = ErrRegistry.Register("NO_CURRENT", errx.TypeNotFound, http.StatusNotFound, "No current analysis; upload a resume and job description first")
	CodeMalformedResponse    = ErrRegistry.Register("MALFORMED_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Failed to load analysis")
	CodeModelUnavailable     = ErrRegistry.Register("MODEL_UNAVAILABLE", errx.TypeExternal, http.StatusBadGateway, "Failed to reach the analysis model")
	CodeStoreFailed          = ErrRegistry.Register("STORE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to save analysis")
	CodeWorkspaceUnavailable = ErrRegistry.Register("WORKSPACE_UNAVAILABLE", errx.TypeInternal, http.StatusInternalServerError, "Failed to access current analysis")
)

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrMissingTexts() *errx.Error {
	return ErrRegistry.New(CodeMissingTexts)
}

func ErrMissingSkills() *errx.Error {
	return ErrRegistry.New(CodeMissingSkills)
}

func ErrNoCurrentAnalysis() *errx.Error {
	return ErrRegistry.New(CodeNoCurrentAnalysis)
}

// ErrMalformedResponse is returned when a model reply does not fit the expected shape
func ErrMalformedResponse(reason string) *errx.Error {
	return ErrRegistry.New(CodeMalformedResponse).WithDetail("reason", reason)
}

func ErrModelUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeModelUnavailable, cause)
}

func ErrStoreFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreFailed, cause)
}

func ErrWorkspaceUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeWorkspaceUnavailable, cause)
}
