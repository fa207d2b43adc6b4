package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 0)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		var body user.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body.Email)

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"token":   "tok",
			"user":    map[string]string{"firstName": "Ada", "lastName": "L", "email": "ada@example.com"},
		})
	})

	resp, err := c.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "Ada", string(resp.User.FirstName))
}

func TestClient_APIError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "INVALID_PASSWORD",
			"message": "Invalid password",
			"code":    "USER.INVALID_PASSWORD",
		})
	})

	_, err := c.Login(context.Background(), "a@b.c", "bad")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "USER.INVALID_PASSWORD", apiErr.Code)
	assert.Equal(t, "Invalid password", apiErr.Message)
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.ClearCurrent(context.Background(), "tok")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_ExtractTextSendsMultipart(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload/extract-text", r.URL.Path)
		assert.Equal(t, "jd", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "jd.pdf", fh.Filename)
		assert.Equal(t, "application/pdf", fh.Header.Get("Content-Type"))
		assert.Equal(t, []byte("%PDF-1.4"), data)

		writeJSON(w, http.StatusOK, map[string]string{"text": "extracted", "message": "ok", "analysisId": "a1"})
	})

	resp, err := c.ExtractText(context.Background(), "tok", analysis.KindJobDescription, "jd.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "extracted", resp.Text)
	assert.Equal(t, "a1", resp.AnalysisID.String())
}

func TestClient_AnalyzeAndRoadmap(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analysis/analyze":
			writeJSON(w, http.StatusOK, map[string]any{
				"result": map[string]any{
					"matched_keywords": []string{"Go"},
					"missing_keywords": []string{"Rust"},
					"recommendations":  []map[string]string{{"explanation": "Learn Rust"}},
				},
				"matchScore": 50,
			})
		case "/api/analysis/roadmap":
			var body analysis.RoadmapRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusOK, map[string]any{"plan": map[string]any{"skillsToLearn": body.MissingSkills}})
		default:
			http.NotFound(w, r)
		}
	})

	resp, err := c.Analyze(context.Background(), "tok", analysis.AnalyzeRequest{ResumeText: "r", JobDescriptionText: "j"})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.MatchScore)
	assert.Equal(t, []string{"Rust"}, resp.Result.MissingKeywords)

	plan, err := c.Roadmap(context.Background(), "tok", resp.Result.MissingKeywords)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust"}, plan.SkillsToLearn)
}

func TestWorkspace_DocumentChangeInvalidatesResults(t *testing.T) {
	ws := NewWorkspace()
	assert.False(t, ws.LoggedIn())

	ws.SetSession("tok", user.Profile{FirstName: "Ada"})
	assert.True(t, ws.LoggedIn())

	ws.SetDocument(analysis.KindResume, analysis.Document{Text: "resume"}, "a1")
	ws.SetDocument(analysis.KindJobDescription, analysis.Document{Text: "jd"}, "a2")
	assert.True(t, ws.Current().Ready())
	assert.Equal(t, "a2", ws.Current().AnalysisID.String())

	ws.SetResult(&analysis.AnalyzeResponse{MatchScore: 80})
	ws.SetPlan(&analysis.LearningPlan{SkillsToLearn: []string{"Go"}})
	_, ok := ws.Result()
	assert.True(t, ok)

	ws.SetDocument(analysis.KindJobDescription, analysis.Document{Text: "new jd"}, "")
	_, ok = ws.Result()
	assert.False(t, ok)
	_, ok = ws.Plan()
	assert.False(t, ok)
	assert.Equal(t, "resume", ws.Current().Resume.Text)

	ws.Reset()
	assert.False(t, ws.LoggedIn())
	assert.False(t, ws.Current().Ready())
}

func TestWorkspace_NewResultDropsPlan(t *testing.T) {
	ws := NewWorkspace()
	ws.SetPlan(&analysis.LearningPlan{})
	ws.SetResult(&analysis.AnalyzeResponse{})
	_, ok := ws.Plan()
	assert.False(t, ok)
}

func TestRenderViews(t *testing.T) {
	resp := &analysis.AnalyzeResponse{
		Result: analysis.Result{
			MatchedKeywords: []string{"Go", "SQL"},
			MissingKeywords: []string{"Kubernetes"},
			Recommendations: []analysis.Recommendation{{Explanation: "Mention Kubernetes", Snippet: "Ran EKS clusters"}},
		},
		MatchScore: 67,
	}

	var buf bytes.Buffer
	RenderMatch(&buf, resp)
	out := buf.String()
	assert.Contains(t, out, "Match score: 67%")
	assert.Contains(t, out, "  - Kubernetes")

	buf.Reset()
	RenderSuggestions(&buf, resp)
	assert.Contains(t, buf.String(), "1. Mention Kubernetes")
	assert.Contains(t, buf.String(), `"Ran EKS clusters"`)

	buf.Reset()
	RenderRoadmap(&buf, &analysis.LearningPlan{
		SkillsToLearn:    []string{"Kubernetes"},
		CertifiedCourses: []analysis.Course{{Title: "CKA", Provider: "CNCF"}},
	})
	assert.Contains(t, buf.String(), "CKA (CNCF)")
	assert.Contains(t, buf.String(), "(none)")

	buf.Reset()
	RenderUpload(&buf, analysis.Current{Resume: analysis.Document{Text: "one two three", FileName: "cv.pdf"}})
	assert.Contains(t, buf.String(), "cv.pdf, 3 words")
	assert.Contains(t, buf.String(), "(missing)")

	buf.Reset()
	RenderHistory(&buf, nil)
	assert.True(t, strings.HasPrefix(buf.String(), "No saved analyses"))
}
