package analysis

import (
	"context"

	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// Store persists analyses inside their owner's record
type Store interface {
	// AppendAnalysis adds a to the end of the user's list
	AppendAnalysis(ctx context.Context, userID kernel.UserID, a *Analysis) error

	// ListAnalyses returns the user's analyses in insertion order
	ListAnalyses(ctx context.Context, userID kernel.UserID) ([]Analysis, error)
}

// Workspace holds each user's current resume/JD pair
type Workspace interface {
	// Get returns ErrNoCurrentAnalysis when nothing is stored
	Get(ctx context.Context, userID kernel.UserID) (*Current, error)
	Put(ctx context.Context, userID kernel.UserID, current Current) error
	Invalidate(ctx context.Context, userID kernel.UserID) error
}

// Model is a text-in, text-out generative model
type Model interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// VideoProber checks whether a video URL is still playable
type VideoProber interface {
	Available(ctx context.Context, url string) (bool, error)
}

// Publisher emits domain events
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
