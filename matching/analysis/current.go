package analysis

import (
	"time"

	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// Current is the single resume/JD pair a user is working on
type Current struct {
	AnalysisID     kernel.AnalysisID `json:"analysisId,omitempty"`
	Resume         Document          `json:"resume"`
	JobDescription Document          `json:"jobDescription"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// WithUpload replaces one side of the pair. The stored analysis id no longer
// describes the pair, so it is cleared unless the upload created a new one.
func (c Current) WithUpload(kind DocumentKind, doc Document, created kernel.AnalysisID) Current {
	if kind == KindJobDescription {
		c.JobDescription = doc
	} else {
		c.Resume = doc
	}
	c.AnalysisID = created
	c.UpdatedAt = time.Now().UTC()
	return c
}

// CurrentFromAnalysis seeds a workspace value from a saved analysis
func CurrentFromAnalysis(a *Analysis) Current {
	return Current{
		AnalysisID:     a.ID,
		Resume:         a.Resume,
		JobDescription: a.JobDescription,
		UpdatedAt:      time.Now().UTC(),
	}
}

// Ready reports whether both texts are present
func (c Current) Ready() bool {
	return !c.Resume.IsEmpty() && !c.JobDescription.IsEmpty()
}
