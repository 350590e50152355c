package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"go-booking-api/config"
	"go-booking-api/logger"
	"go-booking-api/model"
	"go-booking-api/repository"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrGoogleUnavailable covers any failed round trip to Google; callers may
// retry with backoff.
var ErrGoogleUnavailable = errors.New("identity provider unavailable")

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleAuthService handles the Google SSO flow: building the authorization
// URL, exchanging the callback code, fetching the profile and mapping it to
// a local user.
type GoogleAuthService struct {
	cfg      *config.Config
	userRepo repository.IUserRepository
	users    *UserService
	client   *http.Client

	tokenURL    string
	userInfoURL string
}

func NewGoogleAuthService(cfg *config.Config, userRepo repository.IUserRepository, users *UserService) *GoogleAuthService {
	return &GoogleAuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		users:       users,
		client:      &http.Client{Timeout: 10 * time.Second},
		tokenURL:    googleTokenURL,
		userInfoURL: googleUserInfoURL,
	}
}

// Configured reports whether the OAuth client credentials are present.
func (s *GoogleAuthService) Configured() bool {
	return s.cfg.Google.ClientID != "" && s.cfg.Google.ClientSecret != "" && s.cfg.Google.RedirectURI != ""
}

// AuthorizationURL builds the Google consent URL. When frontendRedirect is
// set it is encoded into the state so the callback can hand tokens back to
// the frontend.
func (s *GoogleAuthService) AuthorizationURL(frontendRedirect, state string) string {
	params := url.Values{}
	params.Set("client_id", s.cfg.Google.ClientID)
	params.Set("redirect_uri", s.cfg.Google.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	if frontendRedirect != "" {
		params.Set("state", base64.RawURLEncoding.EncodeToString([]byte(frontendRedirect)))
	} else if state != "" {
		params.Set("state", state)
	}
	return googleAuthURL + "?" + params.Encode()
}

// DecodeStateRedirect recovers the frontend redirect URI from the state and
// validates it against the allowed origins. Returns "" when absent or not
// allowed.
func (s *GoogleAuthService) DecodeStateRedirect(state string) string {
	if state == "" {
		return ""
	}
	decoded, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return ""
	}
	redirect := string(decoded)
	if s.IsAllowedRedirect(redirect) {
		return redirect
	}
	return ""
}

// IsAllowedRedirect permits only redirect URIs under the configured CORS
// origins.
func (s *GoogleAuthService) IsAllowedRedirect(redirect string) bool {
	for _, origin := range s.cfg.CORSOriginList() {
		if redirect == origin || strings.HasPrefix(redirect, strings.TrimRight(origin, "/")+"/") {
			return true
		}
	}
	return false
}

// ExchangeCode trades the authorization code for a Google access token.
func (s *GoogleAuthService) ExchangeCode(ctx context.Context, code string) (string, error) {
	if !s.Configured() {
		logger.Log.Warn("Google OAuth is not configured")
		return "", ErrGoogleUnavailable
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.cfg.Google.ClientID)
	form.Set("client_secret", s.cfg.Google.ClientSecret)
	form.Set("redirect_uri", s.cfg.Google.RedirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("could not build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("Google token exchange request failed")
		return "", ErrGoogleUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithField("status", resp.StatusCode).Warn("Google token exchange rejected")
		return "", ErrGoogleUnavailable
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.AccessToken == "" {
		logger.Log.WithError(err).Warn("Google token exchange returned no access token")
		return "", ErrGoogleUnavailable
	}
	return payload.AccessToken, nil
}

// FetchProfile retrieves the email and display name for the Google access
// token.
func (s *GoogleAuthService) FetchProfile(ctx context.Context, accessToken string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("could not build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("Google userinfo request failed")
		return "", "", ErrGoogleUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithField("status", resp.StatusCode).Warn("Google userinfo rejected")
		return "", "", ErrGoogleUnavailable
	}

	var payload struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Email == "" {
		return "", "", ErrGoogleUnavailable
	}
	return payload.Email, payload.Name, nil
}

// FindOrCreateUser maps a Google profile to a local account. An existing
// account gets is_google_account flipped on (idempotent; an existing
// password is kept). A new account is SSO-only, defaulting the name to the
// local part of the email.
func (s *GoogleAuthService) FindOrCreateUser(ctx context.Context, email, name string) (*model.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err == nil {
		if !user.IsGoogleAccount {
			if err := s.userRepo.MarkGoogleAccount(user.ID); err != nil {
				return nil, err
			}
			user.IsGoogleAccount = true
			s.users.Invalidate(ctx, user.ID)
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = &model.User{
		Email:           email,
		FullName:        sql.NullString{String: name, Valid: true},
		IsGoogleAccount: true,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		// Lost a race against a concurrent first login for the same email;
		// the winner's row is the account.
		if repository.IsUniqueViolation(err) {
			return s.FindOrCreateUser(ctx, email, name)
		}
		return nil, err
	}
	return user, nil
}
