package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
)

func RenderLanding(w io.Writer, profile *user.Profile) {
	fmt.Fprintln(w, "resumatch: match your resume against a job description")
	if profile == nil {
		fmt.Fprintln(w, "Sign up or log in to get started.")
		return
	}
	fmt.Fprintf(w, "Welcome back, %s %s.\n", profile.FirstName, profile.LastName)
}

// RenderUpload shows which sides of the current pair are filled
func RenderUpload(w io.Writer, current analysis.Current) {
	fmt.Fprintf(w, "Resume:          %s\n", describeDocument(current.Resume))
	fmt.Fprintf(w, "Job description: %s\n", describeDocument(current.JobDescription))
	if current.AnalysisID != "" {
		fmt.Fprintf(w, "Analysis id:     %s\n", current.AnalysisID)
	}
}

func describeDocument(d analysis.Document) string {
	if d.IsEmpty() {
		return "(missing)"
	}
	words := len(strings.Fields(d.Text))
	if d.FileName != "" {
		return fmt.Sprintf("%s, %d words", d.FileName, words)
	}
	return fmt.Sprintf("%d words", words)
}

func RenderMatch(w io.Writer, resp *analysis.AnalyzeResponse) {
	fmt.Fprintf(w, "Match score: %d%%\n", resp.MatchScore)
	fmt.Fprintf(w, "\nMatched keywords (%d):\n", len(resp.Result.MatchedKeywords))
	writeList(w, resp.Result.MatchedKeywords)
	fmt.Fprintf(w, "\nMissing keywords (%d):\n", len(resp.Result.MissingKeywords))
	writeList(w, resp.Result.MissingKeywords)
}

func RenderSuggestions(w io.Writer, resp *analysis.AnalyzeResponse) {
	if len(resp.Result.Recommendations) == 0 {
		fmt.Fprintln(w, "No suggestions, your resume already covers the job description.")
		return
	}
	fmt.Fprintln(w, "Suggestions:")
	for i, rec := range resp.Result.Recommendations {
		fmt.Fprintf(w, "%d. %s\n", i+1, rec.Explanation)
		if rec.Snippet != "" {
			fmt.Fprintf(w, "   e.g. %q\n", rec.Snippet)
		}
	}
}

func RenderRoadmap(w io.Writer, plan *analysis.LearningPlan) {
	fmt.Fprintln(w, "Skills to learn:")
	writeList(w, plan.SkillsToLearn)

	fmt.Fprintln(w, "\nCertified courses:")
	if len(plan.CertifiedCourses) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, c := range plan.CertifiedCourses {
		line := "  - " + c.Title
		if c.Provider != "" {
			line += " (" + c.Provider + ")"
		}
		if c.URL != "" {
			line += " " + c.URL
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "\nFree resources:")
	if len(plan.FreeResources) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, r := range plan.FreeResources {
		fmt.Fprintf(w, "  - %s %s\n", r.Title, r.URL)
	}
}

func RenderHistory(w io.Writer, analyses []analysis.Analysis) {
	if len(analyses) == 0 {
		fmt.Fprintln(w, "No saved analyses.")
		return
	}
	for i, a := range analyses {
		fmt.Fprintf(w, "%d. %s  %s  resume: %s  jd: %s\n",
			i+1,
			a.CreatedAt.Format("2006-01-02 15:04"),
			a.ID,
			describeDocument(a.Resume),
			describeDocument(a.JobDescription),
		)
	}
}

func writeList(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, it := range items {
		fmt.Fprintln(w, "  - "+it)
	}
}
