package userauth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/matching/user/userinfra"
	"github.com/Abraxas-365/resumatch/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*AuthService, *userinfra.MemoryUserRepository, *JWTService) {
	t.Helper()
	repo := userinfra.NewMemoryUserRepository()
	tokens := NewJWTService("test-secret", time.Hour)
	return NewAuthService(repo, NewBcryptPasswordService(bcrypt.MinCost), tokens), repo, tokens
}

func validSignup() user.SignupRequest {
	return user.SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		PhoneNum:  "5551234567",
		Password:  "analytical-engine",
	}
}

func TestSignupThenLogin_TokenCarriesEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestService(t)

	signup, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", signup.User.Email.String())
	assert.Equal(t, "Ada", string(signup.User.FirstName))

	login, err := svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "analytical-engine"})
	require.NoError(t, err)

	claims, err := tokens.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email.String())

	identity, err := svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email.String())
}

func TestSignup_DuplicateEmailCreatesNoSecondRecord(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	again := validSignup()
	again.Email = "ADA@example.com "
	_, err = svc.Signup(ctx, again)

	assert.True(t, errx.IsCode(err, user.CodeEmailAlreadyExists))
	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, e.HTTPStatus)
	assert.Equal(t, 1, repo.Count())
}

func TestSignup_MissingFields(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := validSignup()
	req.PhoneNum = ""
	req.LastName = "  "
	_, err := svc.Signup(context.Background(), req)

	require.True(t, errx.IsCode(err, user.CodeMissingFields))
	e, _ := errx.As(err)
	assert.Equal(t, []string{"lastName", "phoneNum"}, e.Details["missing"])
	assert.Equal(t, 0, repo.Count())
}

func TestSignup_InvalidEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	req := validSignup()
	req.Email = "ada-at-example"
	_, err := svc.Signup(context.Background(), req)
	assert.True(t, errx.IsCode(err, user.CodeInvalidEmail))
}

func TestSignup_PasswordTooLong(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := validSignup()
	req.Password = strings.Repeat("p", 73)
	_, err := svc.Signup(context.Background(), req)

	require.True(t, errx.IsCode(err, user.CodePasswordTooLong))
	e, _ := errx.As(err)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus)
	assert.Equal(t, 0, repo.Count())

	req.Password = strings.Repeat("p", 72)
	_, err = svc.Signup(context.Background(), req)
	assert.NoError(t, err)
}

func TestSignup_StoresBcryptHash(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	u, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "analytical-engine", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("analytical-engine")))
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.True(t, errx.IsCode(err, user.CodeUserNotFound))

	_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, errx.IsCode(err, user.CodeInvalidPassword))

	_, err = svc.Login(ctx, user.LoginRequest{Email: "  ", Password: "analytical-engine"})
	assert.True(t, errx.IsCode(err, user.CodeUserNotFound))

	_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com"})
	assert.True(t, errx.IsCode(err, user.CodeInvalidPassword))
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestService(t)

	_, err := svc.Authenticate(ctx, "")
	assert.True(t, errx.IsCode(err, user.CodeAuthRequired))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.True(t, errx.IsCode(err, user.CodeInvalidToken))

	// well-formed token whose email resolves to no user
	orphan, err := tokens.Generate("u-x", "ghost@example.com")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.True(t, errx.IsCode(err, user.CodeTokenUserNotFound))
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestService(t)
	resp, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(61 * time.Minute) }
	_, err = svc.Authenticate(ctx, resp.Token)
	assert.True(t, errx.IsCode(err, user.CodeTokenExpired))
}
