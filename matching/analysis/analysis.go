package analysis

import (
	"strings"
	"time"

	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// Status is stored on every analysis. Nothing in the pipeline advances it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// DocumentKind selects the slot an uploaded text fills
type DocumentKind string

const (
	KindResume         DocumentKind = "resume"
	KindJobDescription DocumentKind = "jd"
)

// ParseDocumentKind accepts "resume", "jd" and "jobDescription"
func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "resume":
		return KindResume, true
	case "jd", "jobdescription", "job_description":
		return KindJobDescription, true
	}
	return "", false
}

// Document is one side of an analysis
type Document struct {
	Text       string         `json:"text" bson:"text"`
	FileURL    kernel.FileURL `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	FileType   string         `json:"fileType,omitempty" bson:"fileType,omitempty"`
	FileName   string         `json:"fileName,omitempty" bson:"fileName,omitempty"`
	UploadedAt time.Time      `json:"uploadedAt" bson:"uploadedAt"`
}

func (d Document) IsEmpty() bool { return strings.TrimSpace(d.Text) == "" }

// Analysis is embedded in its owning user record and never updated after creation
type Analysis struct {
	ID             kernel.AnalysisID `json:"id" bson:"id"`
	Resume         Document          `json:"resume" bson:"resume"`
	JobDescription Document          `json:"jobDescription" bson:"jobDescription"`
	MatchScore     int               `json:"matchScore" bson:"matchScore"`
	Status         Status            `json:"status" bson:"status"`
	CreatedAt      time.Time         `json:"createdAt" bson:"createdAt"`
}

// New builds a pending analysis with a fresh id
func New(resume, jobDescription Document) *Analysis {
	now := time.Now().UTC()
	if resume.UploadedAt.IsZero() {
		resume.UploadedAt = now
	}
	if jobDescription.UploadedAt.IsZero() {
		jobDescription.UploadedAt = now
	}
	return &Analysis{
		ID:             kernel.GenerateAnalysisID(),
		Resume:         resume,
		JobDescription: jobDescription,
		MatchScore:     0,
		Status:         StatusPending,
		CreatedAt:      now,
	}
}

// NewFromUpload places doc in the slot named by kind
func NewFromUpload(kind DocumentKind, doc Document) *Analysis {
	if kind == KindJobDescription {
		return New(Document{}, doc)
	}
	return New(doc, Document{})
}

// IsComplete reports whether both sides carry text
func (a *Analysis) IsComplete() bool {
	return !a.Resume.IsEmpty() && !a.JobDescription.IsEmpty()
}
