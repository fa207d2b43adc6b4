package analysisinfra

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// OEmbedProber treats a video as available when the oEmbed endpoint describes it
type OEmbedProber struct {
	client   *resty.Client
	endpoint string
}

func NewOEmbedProber(endpoint string, timeout time.Duration) *OEmbedProber {
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OEmbedProber{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
	}
}

func (p *OEmbedProber) Available(ctx context.Context, videoURL string) (bool, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"url":    videoURL,
			"format": "json",
		}).
		Get(p.endpoint)
	if err != nil {
		return false, err
	}
	return resp.StatusCode() == http.StatusOK, nil
}
