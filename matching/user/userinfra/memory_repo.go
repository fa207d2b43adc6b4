package userinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

// MemoryUserRepository is a process-local store for development and tests
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[kernel.UserID]*user.User
	byEmail map[kernel.Email]kernel.UserID
}

var _ user.Repository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[kernel.UserID]*user.User),
		byEmail: make(map[kernel.Email]kernel.UserID),
	}
}

func clone(u *user.User) *user.User {
	cp := *u
	cp.Analyses = append([]analysis.Analysis{}, u.Analyses...)
	return &cp
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return user.ErrEmailAlreadyExists().WithDetail("email", u.Email.String())
	}
	r.byID[u.ID] = clone(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound().WithDetail("user_id", id.String())
	}
	return clone(u), nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound().WithDetail("email", email.String())
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, email kernel.Email) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryUserRepository) AppendAnalysis(ctx context.Context, userID kernel.UserID, a *analysis.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return user.ErrUserNotFound().WithDetail("user_id", userID.String())
	}
	u.Analyses = append(u.Analyses, *a)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) ListAnalyses(ctx context.Context, userID kernel.UserID) ([]analysis.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[userID]
	if !ok {
		return nil, user.ErrUserNotFound().WithDetail("user_id", userID.String())
	}
	return append([]analysis.Analysis{}, u.Analyses...), nil
}

// Count returns the number of stored users
func (r *MemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
