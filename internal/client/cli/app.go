package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/resumatch/internal/client"
	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/ingestion"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// API is the part of client.Client the commands use
type API interface {
	Signup(ctx context.Context, req user.SignupRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*user.AuthResponse, error)
	Me(ctx context.Context, token string) (*user.Profile, error)
	ExtractText(ctx context.Context, token string, kind analysis.DocumentKind, fileName, mimeType string, data []byte) (*ingestion.ExtractResponse, error)
	SaveAnalysis(ctx context.Context, token string, req analysis.SaveAnalysisRequest) (*analysis.SaveAnalysisResponse, error)
	ListAnalyses(ctx context.Context, token string) ([]analysis.Analysis, error)
	Analyze(ctx context.Context, token string, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error)
	Roadmap(ctx context.Context, token string, missingSkills []string) (*analysis.LearningPlan, error)
	Current(ctx context.Context, token string) (*analysis.Current, error)
	ClearCurrent(ctx context.Context, token string) error
}

var _ API = (*client.Client)(nil)

type App struct {
	api      API
	ws       *client.Workspace
	reader   *bufio.Reader
	out      io.Writer
	readFile func(string) ([]byte, error)
}

func NewApp(api API, ws *client.Workspace, in io.Reader, out io.Writer) *App {
	return &App{
		api:      api,
		ws:       ws,
		reader:   bufio.NewReader(in),
		out:      out,
		readFile: os.ReadFile,
	}
}

// Run prints the landing view and serves commands until exit or EOF
func (a *App) Run(ctx context.Context) {
	client.RenderLanding(a.out, nil)
	fmt.Fprintln(a.out, "Type 'help' for commands.")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.ws.LoggedIn()
}

func (a *App) status() string {
	if !a.ws.LoggedIn() {
		return "(guest)"
	}
	return string(a.ws.Profile().Email)
}

func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}

// ============================================================================
// Session
// ============================================================================

func (a *App) Signup(ctx context.Context) error {
	var req user.SignupRequest
	var err error
	if req.FirstName, err = GetSimpleText(a.reader, "First name", a.out); err != nil {
		return a.fail(err)
	}
	if req.LastName, err = GetSimpleText(a.reader, "Last name", a.out); err != nil {
		return a.fail(err)
	}
	if req.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return a.fail(err)
	}
	phone, err := GetSimpleText(a.reader, "Phone number", a.out)
	if err != nil {
		return a.fail(err)
	}
	req.PhoneNum = kernel.Phone(phone)

	pw, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer wipe(pw)
	req.Password = string(pw)

	resp, err := a.api.Signup(ctx, req)
	if err != nil {
		return a.fail(err)
	}
	a.startSession(resp)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return a.fail(err)
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer wipe(pw)

	resp, err := a.api.Login(ctx, email, string(pw))
	if err != nil {
		return a.fail(err)
	}
	a.startSession(resp)
	return nil
}

func (a *App) startSession(resp *user.AuthResponse) {
	a.ws.Reset()
	a.ws.SetSession(resp.Token, resp.User)
	profile := resp.User
	client.RenderLanding(a.out, &profile)
}

func (a *App) Logout(ctx context.Context) error {
	a.ws.Reset()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	profile, err := a.api.Me(ctx, a.ws.Token())
	if err != nil {
		return a.fail(err)
	}
	client.RenderLanding(a.out, profile)
	fmt.Fprintf(a.out, "Email: %s\n", profile.Email)
	return nil
}

// ============================================================================
// Documents
// ============================================================================

func parseKind(s string) (analysis.DocumentKind, error) {
	kind, ok := analysis.ParseDocumentKind(s)
	if !ok {
		return "", fmt.Errorf("unknown document kind %q, use resume or jd", s)
	}
	return kind, nil
}

func mimeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ingestion.MIMEPDF
	case ".docx":
		return ingestion.MIMEDOCX
	}
	return "application/octet-stream"
}

// Upload sends a local file for extraction. The server records it as a new
// analysis; the workspace keeps the returned text in the named slot.
func (a *App) Upload(ctx context.Context, kindArg, path string) error {
	kind, err := parseKind(kindArg)
	if err != nil {
		return a.fail(err)
	}
	data, err := a.readFile(path)
	if err != nil {
		return a.fail(err)
	}

	name := filepath.Base(path)
	mimeType := mimeFor(path)
	resp, err := a.api.ExtractText(ctx, a.ws.Token(), kind, name, mimeType, data)
	if err != nil {
		return a.fail(err)
	}

	a.ws.SetDocument(kind, analysis.Document{Text: resp.Text, FileName: name, FileType: mimeType}, resp.AnalysisID)
	fmt.Fprintln(a.out, resp.Message)
	client.RenderUpload(a.out, a.ws.Current())
	return nil
}

func (a *App) Paste(ctx context.Context, kindArg string) error {
	kind, err := parseKind(kindArg)
	if err != nil {
		return a.fail(err)
	}
	text, err := GetMultiline(a.reader, "Paste the text", a.out)
	if err != nil {
		return a.fail(err)
	}
	if text == "" {
		return a.fail(errors.New("nothing pasted"))
	}

	a.ws.SetDocument(kind, analysis.Document{Text: text}, "")
	client.RenderUpload(a.out, a.ws.Current())
	return nil
}

func (a *App) Save(ctx context.Context) error {
	cur := a.ws.Current()
	if cur.Resume.IsEmpty() && cur.JobDescription.IsEmpty() {
		return a.fail(errors.New("nothing to save, upload or paste a document first"))
	}

	resp, err := a.api.SaveAnalysis(ctx, a.ws.Token(), analysis.SaveAnalysisRequest{
		Resume:         toInput(cur.Resume),
		JobDescription: toInput(cur.JobDescription),
	})
	if err != nil {
		return a.fail(err)
	}
	a.ws.MarkSaved(resp.AnalysisID)
	fmt.Fprintf(a.out, "%s (%s)\n", resp.Message, resp.AnalysisID)
	return nil
}

func toInput(d analysis.Document) analysis.DocumentInput {
	return analysis.DocumentInput{Text: d.Text, FileURL: d.FileURL, FileType: d.FileType, FileName: d.FileName}
}

// ============================================================================
// Analysis
// ============================================================================

func (a *App) Match(ctx context.Context) error {
	cur := a.ws.Current()
	if !cur.Ready() {
		return a.fail(errors.New("both a resume and a job description are needed"))
	}

	resp, err := a.api.Analyze(ctx, a.ws.Token(), analysis.AnalyzeRequest{
		ResumeText:         cur.Resume.Text,
		JobDescriptionText: cur.JobDescription.Text,
	})
	if err != nil {
		return a.fail(err)
	}
	a.ws.SetResult(resp)
	client.RenderMatch(a.out, resp)
	return nil
}

func (a *App) Suggest(ctx context.Context) error {
	resp, ok := a.ws.Result()
	if !ok {
		return a.fail(errors.New("no match result yet, run 'match' first"))
	}
	client.RenderSuggestions(a.out, resp)
	return nil
}

func (a *App) Roadmap(ctx context.Context) error {
	if plan, ok := a.ws.Plan(); ok {
		client.RenderRoadmap(a.out, plan)
		return nil
	}
	resp, ok := a.ws.Result()
	if !ok {
		return a.fail(errors.New("no match result yet, run 'match' first"))
	}
	if len(resp.Result.MissingKeywords) == 0 {
		fmt.Fprintln(a.out, "No missing skills, nothing to learn.")
		return nil
	}

	plan, err := a.api.Roadmap(ctx, a.ws.Token(), resp.Result.MissingKeywords)
	if err != nil {
		return a.fail(err)
	}
	a.ws.SetPlan(plan)
	client.RenderRoadmap(a.out, plan)
	return nil
}

func (a *App) History(ctx context.Context) error {
	list, err := a.api.ListAnalyses(ctx, a.ws.Token())
	if err != nil {
		return a.fail(err)
	}
	client.RenderHistory(a.out, list)
	return nil
}

// Current pulls the server-side working pair into the workspace
func (a *App) Current(ctx context.Context) error {
	cur, err := a.api.Current(ctx, a.ws.Token())
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Code == string(analysis.CodeNoCurrentAnalysis) {
			fmt.Fprintln(a.out, "No current analysis on the server.")
			return nil
		}
		return a.fail(err)
	}
	if cur == nil {
		fmt.Fprintln(a.out, "No current analysis on the server.")
		return nil
	}
	a.ws.Adopt(*cur)
	client.RenderUpload(a.out, *cur)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.api.ClearCurrent(ctx, a.ws.Token()); err != nil {
		return a.fail(err)
	}
	a.ws.Adopt(analysis.Current{})
	fmt.Fprintln(a.out, "Current analysis cleared.")
	return nil
}
