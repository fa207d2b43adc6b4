package userinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Phone        string    `db:"phone"`
	Analyses     []byte    `db:"analyses"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() (*user.User, error) {
	analyses, err := decodeAnalyses(r.Analyses)
	if err != nil {
		return nil, err
	}
	return &user.User{
		ID:           kernel.UserID(r.ID),
		Email:        kernel.Email(r.Email),
		PasswordHash: r.PasswordHash,
		FirstName:    kernel.FirstName(r.FirstName),
		LastName:     kernel.LastName(r.LastName),
		Phone:        kernel.Phone(r.Phone),
		Analyses:     analyses,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func decodeAnalyses(raw []byte) ([]analysis.Analysis, error) {
	out := []analysis.Analysis{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode analyses: %w", err)
	}
	if out == nil {
		out = []analysis.Analysis{}
	}
	return out, nil
}

// Create inserts a user
func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	analyses := u.Analyses
	if analyses == nil {
		analyses = []analysis.Analysis{}
	}
	analysesJSON, err := json.Marshal(analyses)
	if err != nil {
		return fmt.Errorf("failed to encode analyses: %w", err)
	}

	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			phone, analyses, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		string(analysesJSON),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return user.ErrEmailAlreadyExists().WithDetail("email", u.Email.String())
		}
		return err
	}
	return nil
}

const selectUser = `
		SELECT
			id, email, password_hash, first_name, last_name,
			phone, analyses, created_at, updated_at
		FROM users
`

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, selectUser+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound().WithDetail("user_id", id.String())
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, selectUser+` WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound().WithDetail("email", email.String())
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// ExistsByEmail checks whether the email is taken
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email kernel.Email) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, err
	}
	return exists, nil
}

// AppendAnalysis pushes a onto the user's JSONB array in one statement
func (r *PostgresUserRepository) AppendAnalysis(ctx context.Context, userID kernel.UserID, a *analysis.Analysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	query := `
		UPDATE users
		SET
			analyses = analyses || jsonb_build_array($2::jsonb),
			updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, userID, string(payload), time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return user.ErrUserNotFound().WithDetail("user_id", userID.String())
	}
	return nil
}

// ListAnalyses returns the user's analyses in insertion order
func (r *PostgresUserRepository) ListAnalyses(ctx context.Context, userID kernel.UserID) ([]analysis.Analysis, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw, `SELECT analyses FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound().WithDetail("user_id", userID.String())
	}
	if err != nil {
		return nil, err
	}
	return decodeAnalyses(raw)
}
