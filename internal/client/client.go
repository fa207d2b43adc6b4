package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/ingestion"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 2 * time.Minute

// APIError is a non-2xx reply from the server
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Client is a typed HTTP client for the resumatch API
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *Client) send(req *resty.Request, method, path string, out any) error {
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return decodeAPIError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Code: payload.Code, Message: msg}
}

// ============================================================================
// Auth
// ============================================================================

func (c *Client) Signup(ctx context.Context, req user.SignupRequest) (*user.AuthResponse, error) {
	var out user.AuthResponse
	if err := c.send(c.request(ctx, "").SetBody(req), http.MethodPost, "/SignUp", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*user.AuthResponse, error) {
	var out user.AuthResponse
	body := user.LoginRequest{Email: email, Password: password}
	if err := c.send(c.request(ctx, "").SetBody(body), http.MethodPost, "/login", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*user.Profile, error) {
	var out user.MeResponse
	if err := c.send(c.request(ctx, token), http.MethodGet, "/me", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ============================================================================
// Upload
// ============================================================================

// ExtractText uploads a file and records it as a new analysis
func (c *Client) ExtractText(ctx context.Context, token string, kind analysis.DocumentKind, fileName, mimeType string, data []byte) (*ingestion.ExtractResponse, error) {
	var out ingestion.ExtractResponse
	req := c.request(ctx, token).
		SetQueryParam("type", string(kind)).
		SetMultipartField("file", fileName, mimeType, bytes.NewReader(data))
	if err := c.send(req, http.MethodPost, "/api/upload/extract-text", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExtractTextOnly(ctx context.Context, token, fileName, mimeType string, data []byte) (string, error) {
	var out ingestion.ExtractOnlyResponse
	req := c.request(ctx, token).
		SetMultipartField("file", fileName, mimeType, bytes.NewReader(data))
	if err := c.send(req, http.MethodPost, "/api/upload/extract-text-only", &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) SaveAnalysis(ctx context.Context, token string, req analysis.SaveAnalysisRequest) (*analysis.SaveAnalysisResponse, error) {
	var out analysis.SaveAnalysisResponse
	if err := c.send(c.request(ctx, token).SetBody(req), http.MethodPost, "/api/upload/save-analysis", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAnalyses(ctx context.Context, token string) ([]analysis.Analysis, error) {
	var out analysis.ListAnalysesResponse
	if err := c.send(c.request(ctx, token), http.MethodGet, "/api/upload/analyses", &out); err != nil {
		return nil, err
	}
	return out.Analyses, nil
}

// ============================================================================
// Analysis
// ============================================================================

func (c *Client) Analyze(ctx context.Context, token string, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	var out analysis.AnalyzeResponse
	if err := c.send(c.request(ctx, token).SetBody(req), http.MethodPost, "/api/analysis/analyze", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Roadmap(ctx context.Context, token string, missingSkills []string) (*analysis.LearningPlan, error) {
	var out analysis.RoadmapResponse
	body := analysis.RoadmapRequest{MissingSkills: missingSkills}
	if err := c.send(c.request(ctx, token).SetBody(body), http.MethodPost, "/api/analysis/roadmap", &out); err != nil {
		return nil, err
	}
	return &out.Plan, nil
}

func (c *Client) Current(ctx context.Context, token string) (*analysis.Current, error) {
	var out analysis.CurrentResponse
	if err := c.send(c.request(ctx, token), http.MethodGet, "/api/analysis/current", &out); err != nil {
		return nil, err
	}
	return out.Current, nil
}

func (c *Client) ClearCurrent(ctx context.Context, token string) error {
	return c.send(c.request(ctx, token), http.MethodDelete, "/api/analysis/current", nil)
}
