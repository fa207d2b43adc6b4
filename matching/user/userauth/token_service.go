package userauth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/errx"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = time.Hour

// Claims carries the user's email; the email is re-resolved on every request
type Claims struct {
	jwt.RegisteredClaims
	Email kernel.Email `json:"email"`
}

// TokenService issues and verifies session tokens
type TokenService interface {
	Generate(userID kernel.UserID, email kernel.Email) (string, error)
	Validate(token string) (*Claims, error)
}

type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *JWTService) Generate(userID kernel.UserID, email kernel.Email) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errx.Wrap(err, "failed to sign token", errx.TypeInternal)
	}
	return signed, nil
}

func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, user.ErrTokenExpired()
		}
		return nil, user.ErrInvalidToken().WithCause(err)
	}
	if !token.Valid || claims.Email.IsEmpty() {
		return nil, user.ErrInvalidToken()
	}
	return claims, nil
}
