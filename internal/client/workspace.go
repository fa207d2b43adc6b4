package client

import (
	"sync"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// Workspace is the client-side state shared by every view: the session,
// the single current resume/JD pair and results derived from that pair.
// Changing either document invalidates the derived results.
type Workspace struct {
	mu      sync.RWMutex
	token   string
	profile user.Profile
	current analysis.Current
	result  *analysis.AnalyzeResponse
	plan    *analysis.LearningPlan
}

func NewWorkspace() *Workspace {
	return &Workspace{}
}

func (w *Workspace) SetSession(token string, profile user.Profile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token = token
	w.profile = profile
}

func (w *Workspace) Token() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.token
}

func (w *Workspace) Profile() user.Profile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.profile
}

func (w *Workspace) LoggedIn() bool {
	return w.Token() != ""
}

// Reset drops the session and all analysis state
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token = ""
	w.profile = user.Profile{}
	w.current = analysis.Current{}
	w.invalidateLocked()
}

// SetDocument replaces one side of the current pair
func (w *Workspace) SetDocument(kind analysis.DocumentKind, doc analysis.Document, analysisID kernel.AnalysisID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = w.current.WithUpload(kind, doc, analysisID)
	w.invalidateLocked()
}

// Adopt replaces the whole pair, e.g. with the server's current analysis
func (w *Workspace) Adopt(current analysis.Current) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = current
	w.invalidateLocked()
}

// MarkSaved records the id of the analysis the current pair was saved as
func (w *Workspace) MarkSaved(id kernel.AnalysisID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current.AnalysisID = id
}

func (w *Workspace) Current() analysis.Current {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Workspace) SetResult(r *analysis.AnalyzeResponse) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = r
	w.plan = nil
}

func (w *Workspace) Result() (*analysis.AnalyzeResponse, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result, w.result != nil
}

func (w *Workspace) SetPlan(p *analysis.LearningPlan) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plan = p
}

func (w *Workspace) Plan() (*analysis.LearningPlan, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.plan, w.plan != nil
}

func (w *Workspace) invalidateLocked() {
	w.result = nil
	w.plan = nil
}
