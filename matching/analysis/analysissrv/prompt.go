package analysissrv

import (
	"fmt"
	"strings"

	"github.com/Abraxas-365/resumatch/matching/analysis"
)

const matchSystemPrompt = `You are an expert technical recruiter comparing a resume against a job description. Respond with a single JSON object and nothing else.`

func matchPrompt(resumeText, jobDescriptionText string) string {
	return fmt.Sprintf(`Analyze the following resume and job description. Return a JSON object with:
1. matched_keywords: Array of important technical or role-specific terms present in both
2. missing_keywords: Array of relevant terms from the job description not found in the resume
3. recommendations: Array of objects {"explanation": string, "snippet": string} with short, impactful recommendations to improve the resume based on missing keywords. "snippet" is an example line the candidate could add.

Resume:
%s

Job Description:
%s

Return ONLY the JSON object, no other text.`, resumeText, jobDescriptionText)
}

const roadmapSystemPrompt = `You are a career coach curating learning resources. Respond with a single JSON object and nothing else.`

func roadmapPrompt(missingSkills []string) string {
	return fmt.Sprintf(`A candidate is missing these skills: %s

Return a JSON object with:
1. skillsToLearn: Array of the skills in recommended learning order
2. certifiedCourses: Array of at most %d objects {"title", "provider", "url", "skill"} for paid or certified courses
3. freeResources: Array of at most %d objects {"title", "url", "type", "skill"} for free resources; "type" is "video", "article" or "docs". Prefer YouTube videos with full watch URLs.

Return ONLY the JSON object, no other text.`, strings.Join(missingSkills, ", "), analysis.MaxCertifiedCourses, analysis.MaxFreeResources)
}

func replacementPrompt(skill string, rejected []string) string {
	return fmt.Sprintf(`Suggest one free YouTube video that teaches %q.
These URLs are unavailable, do not repeat them: %s

Return ONLY a JSON object {"title", "url", "type": "video", "skill"}.`, skill, strings.Join(rejected, ", "))
}
