package user

import (
	"context"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

type Repository interface {
	// Create stores a new user; ErrEmailAlreadyExists on a duplicate email
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user with its analyses
	GetByID(ctx context.Context, id kernel.UserID) (*User, error)

	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email kernel.Email) (*User, error)

	// ExistsByEmail checks email uniqueness before insert
	ExistsByEmail(ctx context.Context, email kernel.Email) (bool, error)

	// Analyses live inside the user record
	analysis.Store
}
