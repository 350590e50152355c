package service

import (
	"database/sql"
	"errors"
	"go-booking-api/logger"
	"go-booking-api/metrics"
	"go-booking-api/model"
	"go-booking-api/repository"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

const bcryptCost = 12

// AuthService owns password credentials and the refresh-token session
// lifecycle: signup, login, rotation and revocation.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	tokens    *TokenService
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Signup creates a password account and issues its first token pair.
func (s *AuthService) Signup(email, password, fullName string) (*model.User, *model.TokenPair, error) {
	hashed, err := s.HashPassword(password)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}

	user := &model.User{
		Email:          email,
		FullName:       sql.NullString{String: fullName, Valid: fullName != ""},
		HashedPassword: sql.NullString{String: hashed, Valid: true},
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		// The unique index on email closes the race between concurrent
		// signups; translate it to the same conflict a pre-check would give.
		if repository.IsUniqueViolation(err) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, nil, ErrEmailTaken
		}
		metrics.SignupsTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}

	pair, err := s.IssueSession(user, "signup")
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	metrics.SignupsTotal.WithLabelValues("success").Inc()
	return user, pair, nil
}

// Login verifies password credentials and issues a token pair. SSO-only
// accounts have no stored password and always fail here.
func (s *AuthService) Login(email, password string) (*model.User, *model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return nil, nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	if !user.HashedPassword.Valid || !s.CheckPasswordHash(password, user.HashedPassword.String) {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.IssueSession(user, "login")
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is consumed exactly
// once and a fresh pair is minted. Concurrent rotations of the same token
// produce at most one winner; every loser gets ErrInvalidRefreshToken.
func (s *AuthService) Refresh(refreshToken string) (*model.User, *model.TokenPair, error) {
	userID, jti, _, err := s.tokens.DecodeRefresh(refreshToken)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "invalid").Inc()
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.TokensIssuedTotal.WithLabelValues("refresh", "invalid").Inc()
			return nil, nil, ErrInvalidRefreshToken
		}
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "failure").Inc()
		return nil, nil, err
	}

	// One-time use: revoke-if-active in a single conditional update and
	// check the affected-row count instead of read-then-write.
	affected, err := s.tokenRepo.ConsumeActive(jti, time.Now().UTC())
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "failure").Inc()
		return nil, nil, err
	}
	if affected == 0 {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "invalid").Inc()
		return nil, nil, ErrInvalidRefreshToken
	}

	pair, err := s.IssueSession(user, "refresh")
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "failure").Inc()
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the session record behind the presented refresh token.
// Undecodable, unknown or already-revoked tokens are tolerated silently.
func (s *AuthService) Logout(refreshToken string) {
	_, jti, _, err := s.tokens.DecodeRefresh(refreshToken)
	if err != nil {
		return
	}
	if err := s.tokenRepo.Revoke(jti); err != nil {
		logger.Log.WithError(err).Warn("Failed to revoke refresh token on logout")
	}
}

// IssueSession mints a token pair for the user and stores the refresh
// record. Used by the password, refresh and Google flows alike.
func (s *AuthService) IssueSession(user *model.User, flow string) (*model.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues(flow, "success").Inc()
	return pair, nil
}

// storeRefreshToken decodes the freshly minted token to obtain its jti and
// expiry. A token that fails to decode has nothing to store, which cannot
// happen for tokens this process just signed.
func (s *AuthService) storeRefreshToken(userID int, refreshToken string) error {
	_, jti, expiresAt, err := s.tokens.DecodeRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokenRepo.Create(&model.RefreshToken{
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: expiresAt,
	})
}
