package analysisinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// MemoryWorkspace keeps current analyses in process memory
type MemoryWorkspace struct {
	mu      sync.RWMutex
	current map[kernel.UserID]analysis.Current
}

func NewMemoryWorkspace() *MemoryWorkspace {
	return &MemoryWorkspace{current: make(map[kernel.UserID]analysis.Current)}
}

func (w *MemoryWorkspace) Get(ctx context.Context, userID kernel.UserID) (*analysis.Current, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.current[userID]
	if !ok {
		return nil, analysis.ErrNoCurrentAnalysis()
	}
	return &c, nil
}

func (w *MemoryWorkspace) Put(ctx context.Context, userID kernel.UserID, current analysis.Current) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.current[userID] = current
	return nil
}

func (w *MemoryWorkspace) Invalidate(ctx context.Context, userID kernel.UserID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.current, userID)
	return nil
}
