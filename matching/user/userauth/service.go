package userauth

import (
	"context"
	"strings"

	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/errx"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/Abraxas-365/resumatch/pkg/logx"
)

// Identity is the authenticated caller, re-derived on every request
type Identity struct {
	UserID kernel.UserID
	Email  kernel.Email
}

// AuthService handles signup, login and bearer token authentication
type AuthService struct {
	repo      user.Repository
	passwords PasswordService
	tokens    TokenService
}

func NewAuthService(repo user.Repository, passwords PasswordService, tokens TokenService) *AuthService {
	return &AuthService{
		repo:      repo,
		passwords: passwords,
		tokens:    tokens,
	}
}

// Signup registers a user and returns a session token
func (s *AuthService) Signup(ctx context.Context, req user.SignupRequest) (*user.AuthResponse, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := kernel.NormalizeEmail(req.Email)

	var missing []string
	if first == "" {
		missing = append(missing, "firstName")
	}
	if last == "" {
		missing = append(missing, "lastName")
	}
	if email.IsEmpty() {
		missing = append(missing, "email")
	}
	if req.PhoneNum.IsEmpty() {
		missing = append(missing, "phoneNum")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, user.ErrMissingFields().WithDetail("missing", missing)
	}
	if !email.IsValid() {
		return nil, user.ErrInvalidEmail().WithDetail("email", email.String())
	}
	if len(req.Password) > MaxPasswordBytes {
		return nil, user.ErrPasswordTooLong().WithDetail("max_bytes", MaxPasswordBytes)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, user.ErrRegistrationFailed(err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists().WithDetail("email", email.String())
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, user.ErrRegistrationFailed(err)
	}

	u := user.NewUser(email, hash, kernel.FirstName(first), kernel.LastName(last), req.PhoneNum)
	if err := s.repo.Create(ctx, u); err != nil {
		// a concurrent signup can still hit the unique constraint
		if errx.IsCode(err, user.CodeEmailAlreadyExists) {
			return nil, err
		}
		return nil, user.ErrRegistrationFailed(err)
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, user.ErrRegistrationFailed(err)
	}

	logx.Infof("user registered: %s", u.ID)

	return &user.AuthResponse{
		Message: "User signed up successfully",
		Token:   token,
		User:    u.Profile(),
	}, nil
}

// Login verifies credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	email := kernel.NormalizeEmail(req.Email)
	// a blank email matches no account, a blank password matches no hash
	if email.IsEmpty() {
		return nil, user.ErrUserNotFound()
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errx.IsCode(err, user.CodeUserNotFound) {
			return nil, user.ErrUserNotFound()
		}
		return nil, user.ErrLoginFailed(err)
	}

	if !s.passwords.Verify(u.PasswordHash, req.Password) {
		return nil, user.ErrInvalidPassword()
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, user.ErrLoginFailed(err)
	}

	return &user.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    u.Profile(),
	}, nil
}

// Authenticate verifies a raw token and resolves it to a stored user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, user.ErrAuthRequired()
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errx.IsCode(err, user.CodeUserNotFound) {
			return nil, user.ErrTokenUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to resolve token user", errx.TypeInternal)
	}
	if claims.Subject != "" && claims.Subject != u.ID.String() {
		return nil, user.ErrInvalidToken()
	}

	return &Identity{UserID: u.ID, Email: u.Email}, nil
}

// Profile returns the public profile of userID
func (s *AuthService) Profile(ctx context.Context, userID kernel.UserID) (*user.Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}
