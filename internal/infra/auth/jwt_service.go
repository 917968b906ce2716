package auth

import (
	"strings"
	"time"

	"authsvc/config"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// tokenClaims is the signed payload. It carries the user id and timestamps only.
type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration // zero: no exp claim
	now    func() time.Time
}

// NewJWTService builds the token service from the secret loaded at startup.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return newJWTService(cfg.SecretKey.Access, cfg.SecretKey.TokenTTL)
}

func newJWTService(secret string, ttl time.Duration) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if ttl < 0 {
		return nil, errors.New("jwt ttl must not be negative")
	}

	return &jwtService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs {userId, iat[, exp]} for userID.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded user id.
// Every failure wraps domainerrors.ErrInvalidToken.
func (s *jwtService) Verify(token string) (uuid.UUID, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidToken, "token is empty")
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, errors.Wrapf(domainerrors.ErrInvalidToken, "failed to parse token: %v", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidToken, "token carries no valid user id")
	}

	return userID, nil
}
