// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"go-booking-api/config"
	"go-booking-api/logger"
	"go-booking-api/model"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails signature, expiry or
// kind checks. Callers must treat it as "re-authenticate", nothing more.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService mints and validates the signed access and refresh tokens.
// It is stateless: all state lives in the claims and the shared secret.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWT.SecretKey),
		method:     jwt.GetSigningMethod(cfg.JWT.Algorithm),
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
	}
}

// IssueAccess creates a short-lived access token for the user. Access tokens
// carry no jti and have no server-side record.
func (s *TokenService) IssueAccess(userID int) (string, error) {
	now := time.Now().UTC()
	claims := &model.AppClaims{
		Kind: model.TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return s.sign(claims, userID)
}

// IssueRefresh creates a refresh token with a fresh random jti, which keys
// the server-side session record.
func (s *TokenService) IssueRefresh(userID int) (string, error) {
	now := time.Now().UTC()
	claims := &model.AppClaims{
		Kind: model.TokenKindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return s.sign(claims, userID)
}

// IssuePair mints an access/refresh token pair for the user.
func (s *TokenService) IssuePair(userID int) (*model.TokenPair, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

// DecodeAccess validates an access token and returns the user ID it was
// issued for.
func (s *TokenService) DecodeAccess(tokenString string) (int, error) {
	claims, err := s.decode(tokenString, model.TokenKindAccess)
	if err != nil {
		return 0, err
	}
	return subjectID(claims)
}

// DecodeRefresh validates a refresh token and returns the user ID, the jti
// and the expiry instant.
func (s *TokenService) DecodeRefresh(tokenString string) (int, string, time.Time, error) {
	claims, err := s.decode(tokenString, model.TokenKindRefresh)
	if err != nil {
		return 0, "", time.Time{}, err
	}
	userID, err := subjectID(claims)
	if err != nil {
		return 0, "", time.Time{}, err
	}
	if claims.ID == "" {
		return 0, "", time.Time{}, ErrInvalidToken
	}
	return userID, claims.ID, claims.ExpiresAt.Time, nil
}

func (s *TokenService) sign(claims *model.AppClaims, userID int) (string, error) {
	tokenString, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

func (s *TokenService) decode(tokenString, wantKind string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// block alg confusion
		if t.Method.Alg() != s.method.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != wantKind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func subjectID(claims *model.AppClaims) (int, error) {
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
