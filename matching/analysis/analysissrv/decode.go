package analysissrv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Abraxas-365/resumatch/matching/analysis"
)

// extractObject strips markdown fences and returns the first balanced
// top-level JSON object in the reply.
func extractObject(reply string) (string, bool) {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

type fields map[string]json.RawMessage

func decodeFields(reply string) (fields, error) {
	obj, ok := extractObject(reply)
	if !ok {
		return nil, analysis.ErrMalformedResponse("no JSON object in reply")
	}
	var f fields
	if err := json.Unmarshal([]byte(obj), &f); err != nil {
		return nil, analysis.ErrMalformedResponse("invalid JSON: " + err.Error())
	}
	return f, nil
}

// array returns the elements of a required array-valued field
func (f fields) array(key string) ([]json.RawMessage, error) {
	raw, ok := f[key]
	if !ok {
		return nil, analysis.ErrMalformedResponse(fmt.Sprintf("missing field %q", key))
	}
	if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '[' {
		return nil, analysis.ErrMalformedResponse(fmt.Sprintf("field %q is not an array", key))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, analysis.ErrMalformedResponse(fmt.Sprintf("field %q: %v", key, err))
	}
	return items, nil
}

// keywords decodes a string array, dropping blanks and case-insensitive duplicates
func (f fields) keywords(key string) ([]string, error) {
	items, err := f.array(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, analysis.ErrMalformedResponse(fmt.Sprintf("%s[%d] is not a string", key, i))
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// DecodeResult parses a keyword-match reply. Recommendations may be plain
// strings or {explanation, snippet} objects.
func DecodeResult(reply string) (*analysis.Result, error) {
	f, err := decodeFields(reply)
	if err != nil {
		return nil, err
	}

	matched, err := f.keywords("matched_keywords")
	if err != nil {
		return nil, err
	}
	missing, err := f.keywords("missing_keywords")
	if err != nil {
		return nil, err
	}
	items, err := f.array("recommendations")
	if err != nil {
		return nil, err
	}

	recs := make([]analysis.Recommendation, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecommendation(item)
		if err != nil {
			return nil, analysis.ErrMalformedResponse(fmt.Sprintf("recommendations[%d]: %s", i, err))
		}
		if rec.Explanation != "" {
			recs = append(recs, rec)
		}
	}

	return &analysis.Result{
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Recommendations: recs,
	}, nil
}

func decodeRecommendation(raw json.RawMessage) (analysis.Recommendation, error) {
	t := bytes.TrimSpace(raw)
	switch {
	case len(t) > 0 && t[0] == '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return analysis.Recommendation{}, err
		}
		return analysis.Recommendation{Explanation: strings.TrimSpace(s)}, nil
	case len(t) > 0 && t[0] == '{':
		var obj struct {
			Explanation *string `json:"explanation"`
			Snippet     *string `json:"snippet"`
		}
		if err := json.Unmarshal(t, &obj); err != nil {
			return analysis.Recommendation{}, fmt.Errorf("invalid object")
		}
		if obj.Explanation == nil {
			return analysis.Recommendation{}, fmt.Errorf("missing explanation")
		}
		rec := analysis.Recommendation{Explanation: strings.TrimSpace(*obj.Explanation)}
		if obj.Snippet != nil {
			rec.Snippet = strings.TrimSpace(*obj.Snippet)
		}
		return rec, nil
	}
	return analysis.Recommendation{}, fmt.Errorf("neither string nor object")
}

// DecodeLearningPlan parses a curation reply and caps its lists
func DecodeLearningPlan(reply string) (*analysis.LearningPlan, error) {
	f, err := decodeFields(reply)
	if err != nil {
		return nil, err
	}

	skills, err := f.keywords("skillsToLearn")
	if err != nil {
		return nil, err
	}

	courseItems, err := f.array("certifiedCourses")
	if err != nil {
		return nil, err
	}
	courses := make([]analysis.Course, 0, len(courseItems))
	for i, item := range courseItems {
		var c analysis.Course
		if err := decodeEntry(item, &c); err != nil || strings.TrimSpace(c.Title) == "" {
			return nil, analysis.ErrMalformedResponse(fmt.Sprintf("certifiedCourses[%d] is not a course", i))
		}
		courses = append(courses, c)
	}

	resourceItems, err := f.array("freeResources")
	if err != nil {
		return nil, err
	}
	resources := make([]analysis.Resource, 0, len(resourceItems))
	for i, item := range resourceItems {
		var r analysis.Resource
		if err := decodeEntry(item, &r); err != nil || strings.TrimSpace(r.Title) == "" {
			return nil, analysis.ErrMalformedResponse(fmt.Sprintf("freeResources[%d] is not a resource", i))
		}
		resources = append(resources, r)
	}

	plan := &analysis.LearningPlan{
		SkillsToLearn:    skills,
		CertifiedCourses: courses,
		FreeResources:    resources,
	}
	plan.Cap()
	return plan, nil
}

// DecodeResource parses a single replacement resource
func DecodeResource(reply string) (*analysis.Resource, error) {
	obj, ok := extractObject(reply)
	if !ok {
		return nil, analysis.ErrMalformedResponse("no JSON object in reply")
	}
	var r analysis.Resource
	if err := decodeEntry(json.RawMessage(obj), &r); err != nil || strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.URL) == "" {
		return nil, analysis.ErrMalformedResponse("reply is not a resource")
	}
	return &r, nil
}

func decodeEntry(raw json.RawMessage, v any) error {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || t[0] != '{' {
		return fmt.Errorf("not an object")
	}
	return json.Unmarshal(t, v)
}
