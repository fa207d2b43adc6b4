package analysisapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/resumatch/internal/events"
	"github.com/Abraxas-365/resumatch/internal/httpserver"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysisinfra"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysissrv"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/matching/user/userauth"
	"github.com/Abraxas-365/resumatch/matching/user/userinfra"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubModel struct {
	reply string
}

func (m *stubModel) Complete(ctx context.Context, system, prompt string) (string, error) {
	return m.reply, nil
}

func newTestApp(t *testing.T, model *stubModel) (*fiber.App, string) {
	t.Helper()
	repo := userinfra.NewMemoryUserRepository()
	tokens := userauth.NewJWTService("test-secret", time.Hour)
	auth := userauth.NewAuthService(repo, userauth.NewBcryptPasswordService(bcrypt.MinCost), tokens)

	u := user.NewUser("grace@example.com", "hash", "Grace", "Hopper", "555")
	require.NoError(t, repo.Create(context.Background(), u))
	token, err := tokens.Generate(u.ID, u.Email)
	require.NoError(t, err)

	svc := analysissrv.NewAnalysisService(repo, analysisinfra.NewMemoryWorkspace(), model, events.Noop{}, nil)

	app := httpserver.New(httpserver.Options{AppName: "analysis-test"})
	RegisterRoutes(app, NewHandlers(svc), userauth.Middleware(auth))
	return app, token
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestSaveThenList(t *testing.T) {
	app, token := newTestApp(t, &stubModel{})

	resp, body := do(t, app, http.MethodPost, "/api/upload/save-analysis", token, map[string]any{
		"resume":         map[string]any{"text": "Go developer", "fileType": "application/pdf", "fileName": "cv.pdf"},
		"jobDescription": map[string]any{"text": "Backend engineer"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Analysis saved successfully", body["message"])
	id := body["analysisId"]
	require.NotEmpty(t, id)

	resp, body = do(t, app, http.MethodGet, "/api/upload/analyses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["analyses"].([]any)
	require.Len(t, list, 1)
	last := list[len(list)-1].(map[string]any)
	assert.Equal(t, id, last["id"])
	assert.Equal(t, "Go developer", last["resume"].(map[string]any)["text"])
	assert.Equal(t, "Backend engineer", last["jobDescription"].(map[string]any)["text"])
	assert.Equal(t, "pending", last["status"])
}

func TestSubmitAndMyAnalyses(t *testing.T) {
	app, token := newTestApp(t, &stubModel{})

	resp, body := do(t, app, http.MethodPost, "/api/analysis/submit", token, map[string]any{
		"resume":         map[string]any{"text": "r"},
		"jobDescription": map[string]any{"text": "j"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])

	resp, body = do(t, app, http.MethodGet, "/api/analysis/my-analyses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}

func TestRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t, &stubModel{})

	for _, path := range []string{"/api/upload/analyses", "/api/analysis/my-analyses", "/api/analysis/current"} {
		resp, _ := do(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, _ := do(t, app, http.MethodGet, "/api/upload/analyses", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	model := &stubModel{reply: `{"matched_keywords":["Go","SQL","Docker"],"missing_keywords":["Kubernetes"],"recommendations":[{"explanation":"Add Kubernetes","snippet":"Deployed services on EKS"}]}`}
	app, token := newTestApp(t, model)

	resp, body := do(t, app, http.MethodPost, "/api/analysis/analyze", token, map[string]any{
		"resumeText":         "Go, SQL, Docker",
		"jobDescriptionText": "Go, SQL, Docker, Kubernetes",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.EqualValues(t, 75, body["matchScore"])

	result := body["result"].(map[string]any)
	assert.IsType(t, []any{}, result["matched_keywords"])
	assert.IsType(t, []any{}, result["missing_keywords"])
	assert.IsType(t, []any{}, result["recommendations"])
}

func TestAnalyze_MalformedReply(t *testing.T) {
	app, token := newTestApp(t, &stubModel{reply: `{"matched_keywords":[],"missing_keywords":[]}`})

	resp, body := do(t, app, http.MethodPost, "/api/analysis/analyze", token, map[string]any{
		"resumeText":         "r",
		"jobDescriptionText": "j",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "ANALYSIS.MALFORMED_RESPONSE", body["code"])
	assert.Equal(t, "Failed to load analysis", body["message"])
	assert.Nil(t, body["result"])
}

func TestAnalyze_NoCurrentPair(t *testing.T) {
	app, token := newTestApp(t, &stubModel{})

	resp, body := do(t, app, http.MethodPost, "/api/analysis/analyze", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ANALYSIS.NO_CURRENT", body["code"])
}

func TestRoadmap(t *testing.T) {
	model := &stubModel{reply: `{"skillsToLearn":["Kubernetes"],"certifiedCourses":[{"title":"CKA"}],"freeResources":[{"title":"Docs","url":"https://kubernetes.io/docs"}]}`}
	app, token := newTestApp(t, model)

	resp, body := do(t, app, http.MethodPost, "/api/analysis/roadmap", token, map[string]any{
		"missingSkills": []string{"Kubernetes"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	plan := body["plan"].(map[string]any)
	assert.Equal(t, []any{"Kubernetes"}, plan["skillsToLearn"])

	resp, _ = do(t, app, http.MethodPost, "/api/analysis/roadmap", token, map[string]any{"missingSkills": []string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCurrentLifecycle(t *testing.T) {
	app, token := newTestApp(t, &stubModel{})

	resp, _ := do(t, app, http.MethodGet, "/api/analysis/current", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := do(t, app, http.MethodPost, "/api/upload/save-analysis", token, map[string]any{
		"resume":         map[string]any{"text": "r"},
		"jobDescription": map[string]any{"text": "j"},
	})
	id := body["analysisId"]

	resp, body = do(t, app, http.MethodGet, "/api/analysis/current", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["current"].(map[string]any)["analysisId"])

	resp, _ = do(t, app, http.MethodDelete, "/api/analysis/current", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/analysis/current", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
