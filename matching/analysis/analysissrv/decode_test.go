package analysissrv

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMalformed(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, analysis.CodeMalformedResponse), "got %v", err)
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
		ok    bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around", `Sure! {"a":{"b":2}} Hope this helps {"c":3}`, `{"a":{"b":2}}`, true},
		{"braces in strings", `{"s":"}{\"x"}`, `{"s":"}{\"x"}`, true},
		{"none", "no json here", "", false},
		{"unbalanced", `{"a":[1,2`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractObject(tt.reply)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeResult(t *testing.T) {
	reply := "```json\n" + `{
		"matched_keywords": ["Go", "go", " PostgreSQL ", ""],
		"missing_keywords": ["Kubernetes"],
		"recommendations": [
			"Mention Kubernetes",
			{"explanation": "Quantify impact", "snippet": "Cut latency by 40%"}
		]
	}` + "\n```"

	res, err := DecodeResult(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, res.MatchedKeywords)
	assert.Equal(t, []string{"Kubernetes"}, res.MissingKeywords)
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, analysis.Recommendation{Explanation: "Mention Kubernetes"}, res.Recommendations[0])
	assert.Equal(t, "Cut latency by 40%", res.Recommendations[1].Snippet)
	assert.Equal(t, 67, res.MatchScore())
}

func TestDecodeResult_Malformed(t *testing.T) {
	replies := map[string]string{
		"no object":               "I cannot help with that",
		"invalid json":            `{"matched_keywords": [}`,
		"missing recommendations": `{"matched_keywords":["Go"],"missing_keywords":[]}`,
		"null field":              `{"matched_keywords":null,"missing_keywords":[],"recommendations":[]}`,
		"field not array":         `{"matched_keywords":"Go","missing_keywords":[],"recommendations":[]}`,
		"keyword not string":      `{"matched_keywords":[1],"missing_keywords":[],"recommendations":[]}`,
		"recommendation number":   `{"matched_keywords":[],"missing_keywords":[],"recommendations":[42]}`,
		"recommendation no text":  `{"matched_keywords":[],"missing_keywords":[],"recommendations":[{"snippet":"x"}]}`,
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			res, err := DecodeResult(reply)
			assert.Nil(t, res)
			assertMalformed(t, err)
		})
	}
}

func TestDecodeResult_ReasonDetail(t *testing.T) {
	_, err := DecodeResult(`{"matched_keywords":[],"missing_keywords":[]}`)
	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Contains(t, e.Details["reason"], "recommendations")
}

func TestDecodeLearningPlan_Caps(t *testing.T) {
	var courses, resources []string
	for i := 0; i < 8; i++ {
		courses = append(courses, fmt.Sprintf(`{"title":"Course %d","provider":"Udemy"}`, i))
		resources = append(resources, fmt.Sprintf(`{"title":"Video %d","url":"https://youtu.be/%d","type":"video"}`, i, i))
	}
	reply := fmt.Sprintf(`{"skillsToLearn":["Kubernetes","Terraform"],"certifiedCourses":[%s],"freeResources":[%s]}`,
		strings.Join(courses, ","), strings.Join(resources, ","))

	plan, err := DecodeLearningPlan(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, plan.SkillsToLearn)
	assert.Len(t, plan.CertifiedCourses, analysis.MaxCertifiedCourses)
	assert.Len(t, plan.FreeResources, analysis.MaxFreeResources)
	assert.Equal(t, "Course 0", plan.CertifiedCourses[0].Title)
}

func TestDecodeLearningPlan_Malformed(t *testing.T) {
	replies := []string{
		`{"skillsToLearn":[],"certifiedCourses":[]}`,
		`{"skillsToLearn":[],"certifiedCourses":{},"freeResources":[]}`,
		`{"skillsToLearn":[],"certifiedCourses":["Udemy"],"freeResources":[]}`,
		`{"skillsToLearn":[],"certifiedCourses":[],"freeResources":[{"url":"https://x"}]}`,
	}
	for _, reply := range replies {
		plan, err := DecodeLearningPlan(reply)
		assert.Nil(t, plan)
		assertMalformed(t, err)
	}
}

func TestDecodeResource(t *testing.T) {
	r, err := DecodeResource(`Here you go: {"title":"K8s basics","url":"https://youtu.be/abc"}`)
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc", r.URL)

	_, err = DecodeResource(`{"title":"no url"}`)
	assertMalformed(t, err)
}
