package ingestionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/Abraxas-365/resumatch/internal/events"
	"github.com/Abraxas-365/resumatch/internal/httpserver"
	"github.com/Abraxas-365/resumatch/internal/pdf"
	"github.com/Abraxas-365/resumatch/internal/pdf/pdftest"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysisinfra"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysissrv"
	"github.com/Abraxas-365/resumatch/matching/ingestion"
	"github.com/Abraxas-365/resumatch/matching/ingestion/ingestionsrv"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/matching/user/userauth"
	"github.com/Abraxas-365/resumatch/matching/user/userinfra"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type countingExtractor struct {
	inner ingestion.Extractor
	calls int
}

func (c *countingExtractor) ExtractText(data []byte) (string, error) {
	c.calls++
	return c.inner.ExtractText(data)
}

type testEnv struct {
	app       *fiber.App
	token     string
	extractor *countingExtractor
	repo      *userinfra.MemoryUserRepository
	user      *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := userinfra.NewMemoryUserRepository()
	tokens := userauth.NewJWTService("test-secret", time.Hour)
	auth := userauth.NewAuthService(repo, userauth.NewBcryptPasswordService(bcrypt.MinCost), tokens)

	u := user.NewUser("linus@example.com", "hash", "Linus", "T", "555")
	require.NoError(t, repo.Create(context.Background(), u))
	token, err := tokens.Generate(u.ID, u.Email)
	require.NoError(t, err)

	analyses := analysissrv.NewAnalysisService(repo, analysisinfra.NewMemoryWorkspace(), nil, events.Noop{}, nil)
	extractor := &countingExtractor{inner: pdf.NewNativeExtractor()}
	svc := ingestionsrv.NewIngestionService(ingestion.DefaultPolicy(), extractor, nil, analyses, nil, nil)

	app := httpserver.New(httpserver.Options{AppName: "upload-test", BodyLimit: 8 * 1024 * 1024})
	RegisterRoutes(app, NewHandlers(svc), userauth.Middleware(auth))

	return &testEnv{app: app, token: token, extractor: extractor, repo: repo, user: u}
}

func (e *testEnv) upload(t *testing.T, path, mimeType string, data []byte) (*http.Response, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="resume.pdf"`)
		h.Set("Content-Type", mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestExtractText_RecordsAnalysis(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.upload(t, "/api/upload/extract-text?type=resume", "application/pdf", pdftest.Build("Rust and Go developer"))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body["text"], "Rust and Go developer")
	assert.NotEmpty(t, body["message"])
	require.NotEmpty(t, body["analysisId"])

	list, err := env.repo.ListAnalyses(context.Background(), env.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, body["analysisId"], list[0].ID.String())
	assert.Contains(t, list[0].Resume.Text, "Rust and Go developer")
	assert.Equal(t, "resume.pdf", list[0].Resume.FileName)
	assert.True(t, list[0].JobDescription.IsEmpty())
}

func TestExtractText_JobDescriptionSlot(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.upload(t, "/api/upload/extract-text?type=jd", "application/pdf", pdftest.Build("Platform team"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list, err := env.repo.ListAnalyses(context.Background(), env.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].JobDescription.Text, "Platform team")
	assert.True(t, list[0].Resume.IsEmpty())
}

func TestExtractTextOnly_DoesNotPersist(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.upload(t, "/api/upload/extract-text-only?type=resume", "application/pdf", pdftest.Build("Hello"))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body["text"], "Hello")
	assert.NotContains(t, body, "analysisId")

	list, err := env.repo.ListAnalyses(context.Background(), env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpload_OversizedRejectedBeforeExtraction(t *testing.T) {
	env := newTestEnv(t)

	big := make([]byte, ingestion.DefaultMaxBytes+1)
	copy(big, "%PDF-1.4\n")

	resp, body := env.upload(t, "/api/upload/extract-text?type=resume", "application/pdf", big)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UPLOAD.PAYLOAD_TOO_LARGE", body["code"])
	assert.Zero(t, env.extractor.calls)
}

func TestUpload_Rejections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path     string
		mimeType string
		data     []byte
		code     string
	}{
		{"/api/upload/extract-text?type=resume", "application/pdf", nil, "UPLOAD.NO_FILE"},
		{"/api/upload/extract-text?type=cover-letter", "application/pdf", []byte("%PDF"), "UPLOAD.INVALID_TYPE"},
		{"/api/upload/extract-text?type=resume", "image/png", []byte("png"), "UPLOAD.UNSUPPORTED_FORMAT"},
		{"/api/upload/extract-text-only", "text/plain", []byte("plain"), "UPLOAD.UNSUPPORTED_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.path, tt.code), func(t *testing.T) {
			resp, body := env.upload(t, tt.path, tt.mimeType, tt.data)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, body["code"])
		})
	}
	assert.Zero(t, env.extractor.calls)
}

func TestUpload_CorruptPDF(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.upload(t, "/api/upload/extract-text-only", "application/pdf", []byte("%PDF-1.4 garbage"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to extract text from PDF", body["message"])
}

func TestUpload_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	resp, _ := env.upload(t, "/api/upload/extract-text", "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
