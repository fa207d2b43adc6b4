package analysissrv

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/logx"
	"github.com/Abraxas-365/resumatch/pkg/retryx"
)

var errVideoUnavailable = errors.New("video unavailable")

// Curator drops or replaces free video resources that no longer play
type Curator struct {
	model  analysis.Model
	prober analysis.VideoProber
	policy retryx.Policy
}

// NewCurator builds a curator. policy.MaxRetries is the number of replacements
// requested per dead video before it is dropped.
func NewCurator(model analysis.Model, prober analysis.VideoProber, policy retryx.Policy) *Curator {
	return &Curator{
		model:  model,
		prober: prober,
		policy: policy,
	}
}

// IsVideoURL reports whether u points at a YouTube video
func IsVideoURL(u string) bool {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	return host == "youtube.com" || host == "youtu.be"
}

// ValidateResources keeps non-video resources as-is and every video that is
// available, possibly after regeneration. Only context errors are returned.
func (c *Curator) ValidateResources(ctx context.Context, resources []analysis.Resource) ([]analysis.Resource, error) {
	out := make([]analysis.Resource, 0, len(resources))
	for _, r := range resources {
		if !IsVideoURL(r.URL) {
			out = append(out, r)
			continue
		}

		valid, err := c.validate(ctx, r)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logx.Warn("dropping unavailable video", "title", r.Title, "url", r.URL, "error", err)
			continue
		}
		out = append(out, valid)
	}
	return out, nil
}

// validate probes r on the first attempt and a fresh replacement on each retry
func (c *Curator) validate(ctx context.Context, r analysis.Resource) (analysis.Resource, error) {
	rejected := []string{}

	return retryx.Do(ctx, c.policy, func(ctx context.Context, attempt int) (analysis.Resource, error) {
		candidate := r
		if attempt > 0 {
			replacement, err := c.replacement(ctx, r.Skill, r.Title, rejected)
			if err != nil {
				return analysis.Resource{}, retryx.Retryable(err)
			}
			candidate = *replacement
		}

		ok, err := c.prober.Available(ctx, candidate.URL)
		if err != nil || !ok {
			rejected = append(rejected, candidate.URL)
			if err == nil {
				err = errVideoUnavailable
			}
			return analysis.Resource{}, retryx.Retryable(err)
		}
		return candidate, nil
	})
}

func (c *Curator) replacement(ctx context.Context, skill, title string, rejected []string) (*analysis.Resource, error) {
	topic := skill
	if topic == "" {
		topic = title
	}
	reply, err := c.model.Complete(ctx, roadmapSystemPrompt, replacementPrompt(topic, rejected))
	if err != nil {
		return nil, err
	}
	res, err := DecodeResource(reply)
	if err != nil {
		return nil, err
	}
	if !IsVideoURL(res.URL) {
		return nil, errVideoUnavailable
	}
	if res.Skill == "" {
		res.Skill = skill
	}
	if res.Type == "" {
		res.Type = "video"
	}
	return res, nil
}
