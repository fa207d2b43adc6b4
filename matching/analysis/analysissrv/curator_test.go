package analysissrv

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/retryx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	mu        sync.Mutex
	available map[string]bool
	failWith  error
	probed    []string
}

func (p *fakeProber) Available(ctx context.Context, url string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probed = append(p.probed, url)
	if p.failWith != nil {
		return false, p.failWith
	}
	return p.available[url], nil
}

func TestIsVideoURL(t *testing.T) {
	assert.True(t, IsVideoURL("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsVideoURL("https://youtu.be/abc"))
	assert.True(t, IsVideoURL("https://m.youtube.com/watch?v=abc"))
	assert.False(t, IsVideoURL("https://go.dev/doc"))
	assert.False(t, IsVideoURL("::not a url"))
}

func TestCurator_KeepsAvailableAndNonVideo(t *testing.T) {
	model := &scriptedModel{}
	prober := &fakeProber{available: map[string]bool{"https://youtu.be/ok": true}}
	c := NewCurator(model, prober, retryx.Policy{MaxRetries: 2})

	in := []analysis.Resource{
		{Title: "Docs", URL: "https://kubernetes.io/docs", Type: "docs"},
		{Title: "Video", URL: "https://youtu.be/ok", Type: "video"},
	}
	out, err := c.ValidateResources(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, []string{"https://youtu.be/ok"}, prober.probed)
	assert.Zero(t, model.calls())
}

func TestCurator_ReplacesDeadVideo(t *testing.T) {
	model := &scriptedModel{replies: []string{
		`{"title":"Also dead","url":"https://youtu.be/dead2"}`,
		`{"title":"Alive","url":"https://youtu.be/alive","skill":"Go"}`,
	}}
	prober := &fakeProber{available: map[string]bool{"https://youtu.be/alive": true}}
	c := NewCurator(model, prober, retryx.Policy{MaxRetries: 2})

	out, err := c.ValidateResources(context.Background(), []analysis.Resource{
		{Title: "Dead", URL: "https://youtu.be/dead", Skill: "Go"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alive", out[0].Title)
	assert.Equal(t, "video", out[0].Type)
	assert.Equal(t, 2, model.calls())
	// rejected urls are fed back to the model
	assert.Contains(t, model.prompts[1], "https://youtu.be/dead2")
}

func TestCurator_DropsAfterTwoReplacements(t *testing.T) {
	model := &scriptedModel{replies: []string{
		`{"title":"r1","url":"https://youtu.be/r1"}`,
		`{"title":"r2","url":"https://youtu.be/r2"}`,
		`{"title":"r3","url":"https://youtu.be/r3"}`,
	}}
	prober := &fakeProber{available: map[string]bool{"https://youtu.be/r3": true}}
	c := NewCurator(model, prober, retryx.Policy{MaxRetries: 2})

	out, err := c.ValidateResources(context.Background(), []analysis.Resource{
		{Title: "Dead", URL: "https://youtu.be/dead", Skill: "Go"},
		{Title: "Blog", URL: "https://go.dev/blog"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Blog", out[0].Title)
	assert.Equal(t, 2, model.calls())
	assert.Len(t, prober.probed, 3)
}

func TestCurator_ProbeErrorsCountAsUnavailable(t *testing.T) {
	model := &scriptedModel{err: errors.New("model down")}
	prober := &fakeProber{failWith: errors.New("timeout")}
	c := NewCurator(model, prober, retryx.Policy{MaxRetries: 1})

	out, err := c.ValidateResources(context.Background(), []analysis.Resource{{Title: "V", URL: "https://youtu.be/v"}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCurator_ContextCancelled(t *testing.T) {
	prober := &fakeProber{}
	c := NewCurator(&scriptedModel{}, prober, retryx.Policy{MaxRetries: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ValidateResources(ctx, []analysis.Resource{{Title: "V", URL: "https://youtu.be/v"}})
	assert.ErrorIs(t, err, context.Canceled)
}
