package analysissrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/errx"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/Abraxas-365/resumatch/pkg/logx"
)

const RoutingKeyCreated = "analysis.created"

// AnalysisService orchestrates persistence, the current-analysis workspace and model calls
type AnalysisService struct {
	store     analysis.Store
	workspace analysis.Workspace
	model     analysis.Model
	publisher analysis.Publisher
	curator   *Curator
}

// NewAnalysisService creates a new analysis service. curator may be nil to skip video validation.
func NewAnalysisService(
	store analysis.Store,
	workspace analysis.Workspace,
	model analysis.Model,
	publisher analysis.Publisher,
	curator *Curator,
) *AnalysisService {
	return &AnalysisService{
		store:     store,
		workspace: workspace,
		model:     model,
		publisher: publisher,
		curator:   curator,
	}
}

// ============================================================================
// Persistence
// ============================================================================

// SaveAnalysis appends a resume/JD pair and makes it the current analysis
func (s *AnalysisService) SaveAnalysis(ctx context.Context, userID kernel.UserID, req analysis.SaveAnalysisRequest) (*analysis.Analysis, error) {
	if strings.TrimSpace(req.Resume.Text) == "" && strings.TrimSpace(req.JobDescription.Text) == "" {
		return nil, analysis.ErrInvalidRequest().WithDetail("reason", "resume or job description text is required")
	}

	a := analysis.New(req.Resume.ToDocument(), req.JobDescription.ToDocument())
	if err := s.append(ctx, userID, a); err != nil {
		return nil, err
	}

	if err := s.workspace.Put(ctx, userID, analysis.CurrentFromAnalysis(a)); err != nil {
		logx.Warnf("failed to update current analysis for %s: %v", userID, err)
	}
	return a, nil
}

// RecordUpload appends an analysis holding only the uploaded side and
// replaces that side of the current pair.
func (s *AnalysisService) RecordUpload(ctx context.Context, userID kernel.UserID, kind analysis.DocumentKind, doc analysis.Document) (kernel.AnalysisID, error) {
	a := analysis.NewFromUpload(kind, doc)
	if err := s.append(ctx, userID, a); err != nil {
		return "", err
	}

	current := analysis.Current{}
	existing, err := s.workspace.Get(ctx, userID)
	switch {
	case err == nil:
		current = *existing
	case !errx.IsCode(err, analysis.CodeNoCurrentAnalysis):
		logx.Warnf("failed to read current analysis for %s: %v", userID, err)
	}

	upload := a.Resume
	if kind == analysis.KindJobDescription {
		upload = a.JobDescription
	}
	if err := s.workspace.Put(ctx, userID, current.WithUpload(kind, upload, a.ID)); err != nil {
		logx.Warnf("failed to update current analysis for %s: %v", userID, err)
	}
	return a.ID, nil
}

// ListAnalyses returns the user's analyses in insertion order
func (s *AnalysisService) ListAnalyses(ctx context.Context, userID kernel.UserID) ([]analysis.Analysis, error) {
	list, err := s.store.ListAnalyses(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if list == nil {
		list = []analysis.Analysis{}
	}
	return list, nil
}

func (s *AnalysisService) append(ctx context.Context, userID kernel.UserID, a *analysis.Analysis) error {
	if err := s.store.AppendAnalysis(ctx, userID, a); err != nil {
		return storeError(err)
	}

	event := analysis.CreatedEvent{
		AnalysisID: a.ID,
		UserID:     userID,
		HasResume:  !a.Resume.IsEmpty(),
		HasJD:      !a.JobDescription.IsEmpty(),
	}
	if err := s.publisher.Publish(ctx, RoutingKeyCreated, event); err != nil {
		logx.Warnf("failed to publish %s for %s: %v", RoutingKeyCreated, a.ID, err)
	}
	return nil
}

// ============================================================================
// Current analysis
// ============================================================================

func (s *AnalysisService) Current(ctx context.Context, userID kernel.UserID) (*analysis.Current, error) {
	current, err := s.workspace.Get(ctx, userID)
	if err != nil {
		return nil, workspaceError(err)
	}
	return current, nil
}

func (s *AnalysisService) ClearCurrent(ctx context.Context, userID kernel.UserID) error {
	if err := s.workspace.Invalidate(ctx, userID); err != nil {
		return workspaceError(err)
	}
	return nil
}

// ============================================================================
// Model calls
// ============================================================================

// Analyze compares a resume with a job description. When both texts are
// empty the user's current pair is used. Replies are never retried.
func (s *AnalysisService) Analyze(ctx context.Context, userID kernel.UserID, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	resumeText := strings.TrimSpace(req.ResumeText)
	jdText := strings.TrimSpace(req.JobDescriptionText)

	if resumeText == "" && jdText == "" {
		current, err := s.Current(ctx, userID)
		if err != nil {
			return nil, err
		}
		resumeText = strings.TrimSpace(current.Resume.Text)
		jdText = strings.TrimSpace(current.JobDescription.Text)
	}

	if resumeText == "" || jdText == "" {
		return nil, analysis.ErrMissingTexts()
	}

	reply, err := s.model.Complete(ctx, matchSystemPrompt, matchPrompt(resumeText, jdText))
	if err != nil {
		return nil, analysis.ErrModelUnavailable(err)
	}

	result, err := DecodeResult(reply)
	if err != nil {
		logx.Warnf("malformed analysis reply for %s: %v", userID, err)
		return nil, err
	}

	return &analysis.AnalyzeResponse{
		Result:     *result,
		MatchScore: result.MatchScore(),
	}, nil
}

// CurateLearningResources builds a learning plan for the given missing skills
func (s *AnalysisService) CurateLearningResources(ctx context.Context, missingSkills []string) (*analysis.LearningPlan, error) {
	skills := make([]string, 0, len(missingSkills))
	for _, skill := range missingSkills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		return nil, analysis.ErrMissingSkills()
	}

	reply, err := s.model.Complete(ctx, roadmapSystemPrompt, roadmapPrompt(skills))
	if err != nil {
		return nil, analysis.ErrModelUnavailable(err)
	}

	plan, err := DecodeLearningPlan(reply)
	if err != nil {
		logx.Warnf("malformed roadmap reply: %v", err)
		return nil, err
	}

	if s.curator != nil {
		resources, err := s.curator.ValidateResources(ctx, plan.FreeResources)
		if err != nil {
			return nil, analysis.ErrModelUnavailable(err)
		}
		plan.FreeResources = resources
	}
	return plan, nil
}

func storeError(err error) error {
	if _, ok := errx.As(err); ok {
		return err
	}
	return analysis.ErrStoreFailed(err)
}

func workspaceError(err error) error {
	if _, ok := errx.As(err); ok {
		return err
	}
	return analysis.ErrWorkspaceUnavailable(err)
}
