package analysis

import "math"

// Recommendation is a single improvement suggestion
type Recommendation struct {
	Explanation string `json:"explanation"`
	Snippet     string `json:"snippet,omitempty"`
}

// Result is the decoded model verdict for a resume/JD pair. It is never persisted.
type Result struct {
	MatchedKeywords []string         `json:"matched_keywords"`
	MissingKeywords []string         `json:"missing_keywords"`
	Recommendations []Recommendation `json:"recommendations"`
}

// MatchScore is the matched share of all keywords, 0..100
func (r *Result) MatchScore() int {
	total := len(r.MatchedKeywords) + len(r.MissingKeywords)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(r.MatchedKeywords)) / float64(total)))
}

type Course struct {
	Title    string `json:"title"`
	Provider string `json:"provider,omitempty"`
	URL      string `json:"url,omitempty"`
	Skill    string `json:"skill,omitempty"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
	Skill string `json:"skill,omitempty"`
}

const (
	MaxCertifiedCourses = 5
	MaxFreeResources    = 7
)

// LearningPlan is the curated roadmap for a set of missing skills
type LearningPlan struct {
	SkillsToLearn    []string   `json:"skillsToLearn"`
	CertifiedCourses []Course   `json:"certifiedCourses"`
	FreeResources    []Resource `json:"freeResources"`
}

// Cap truncates course and resource lists to their display limits
func (p *LearningPlan) Cap() {
	if len(p.CertifiedCourses) > MaxCertifiedCourses {
		p.CertifiedCourses = p.CertifiedCourses[:MaxCertifiedCourses]
	}
	if len(p.FreeResources) > MaxFreeResources {
		p.FreeResources = p.FreeResources[:MaxFreeResources]
	}
}
