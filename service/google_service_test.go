// service/google_service_test.go
package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"go-booking-api/config"
	"go-booking-api/model"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func googleTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Google.ClientID = "client-id"
	cfg.Google.ClientSecret = "client-secret"
	cfg.Google.RedirectURI = "http://localhost:8080/api/v1/auth/google/callback"
	cfg.Server.CORSOrigins = "http://localhost:3000, https://app.example.com"
	return cfg
}

func TestGoogleAuthService_AuthorizationURL(t *testing.T) {
	googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)

	authURL := googleService.AuthorizationURL("http://localhost:3000/login", "")

	assert.Contains(t, authURL, "accounts.google.com")
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "response_type=code")
	// The frontend redirect travels base64-encoded in the state.
	state := base64.RawURLEncoding.EncodeToString([]byte("http://localhost:3000/login"))
	assert.Contains(t, authURL, "state="+state)
}

func TestGoogleAuthService_DecodeStateRedirect(t *testing.T) {
	googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)

	allowed := base64.RawURLEncoding.EncodeToString([]byte("http://localhost:3000/login"))
	assert.Equal(t, "http://localhost:3000/login", googleService.DecodeStateRedirect(allowed))

	// Redirects outside the allowed origins are dropped.
	outside := base64.RawURLEncoding.EncodeToString([]byte("https://evil.example.com/phish"))
	assert.Equal(t, "", googleService.DecodeStateRedirect(outside))

	assert.Equal(t, "", googleService.DecodeStateRedirect(""))
	assert.Equal(t, "", googleService.DecodeStateRedirect("%%%not-base64%%%"))
}

func TestGoogleAuthService_IsAllowedRedirect(t *testing.T) {
	googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)

	assert.True(t, googleService.IsAllowedRedirect("http://localhost:3000"))
	assert.True(t, googleService.IsAllowedRedirect("https://app.example.com/oauth/done"))
	assert.False(t, googleService.IsAllowedRedirect("https://app.example.com.evil.io/x"))
	assert.False(t, googleService.IsAllowedRedirect("http://localhost:3001"))
}

func TestGoogleAuthService_ExchangeCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "google-access-token"}`))
		}))
		defer srv.Close()

		googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)
		googleService.tokenURL = srv.URL

		token, err := googleService.ExchangeCode(context.Background(), "the-code")

		assert.NoError(t, err)
		assert.Equal(t, "google-access-token", token)
	})

	t.Run("upstream rejects the code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "invalid_grant"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)
		googleService.tokenURL = srv.URL

		_, err := googleService.ExchangeCode(context.Background(), "stale-code")

		assert.ErrorIs(t, err, ErrGoogleUnavailable)
	})

	t.Run("upstream unreachable", func(t *testing.T) {
		googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)
		googleService.tokenURL = "http://127.0.0.1:1/token"

		_, err := googleService.ExchangeCode(context.Background(), "the-code")

		assert.ErrorIs(t, err, ErrGoogleUnavailable)
	})

	t.Run("not configured", func(t *testing.T) {
		googleService := NewGoogleAuthService(&config.Config{}, nil, nil)

		_, err := googleService.ExchangeCode(context.Background(), "the-code")

		assert.ErrorIs(t, err, ErrGoogleUnavailable)
	})
}

func TestGoogleAuthService_FetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer google-access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email": "person@example.com", "name": "Some Person"}`))
	}))
	defer srv.Close()

	googleService := NewGoogleAuthService(googleTestConfig(), nil, nil)
	googleService.userInfoURL = srv.URL

	email, name, err := googleService.FetchProfile(context.Background(), "google-access-token")

	assert.NoError(t, err)
	assert.Equal(t, "person@example.com", email)
	assert.Equal(t, "Some Person", name)
}

func TestGoogleAuthService_FindOrCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates sso-only account with defaulted name", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		googleService := NewGoogleAuthService(googleTestConfig(), userRepo, NewUserService(userRepo, nil))

		userRepo.On("GetUserByEmail", "jane.doe@example.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "jane.doe@example.com" &&
				u.IsGoogleAccount &&
				!u.HashedPassword.Valid &&
				u.FullName.String == "jane.doe"
		})).Return(nil).Once()

		user, err := googleService.FindOrCreateUser(ctx, "jane.doe@example.com", "")

		assert.NoError(t, err)
		assert.True(t, user.IsGoogleAccount)
		userRepo.AssertExpectations(t)
	})

	t.Run("flips flag on existing password account", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		googleService := NewGoogleAuthService(googleTestConfig(), userRepo, NewUserService(userRepo, nil))

		existing := &model.User{
			ID:             5,
			Email:          "dual@example.com",
			HashedPassword: sql.NullString{String: "$2a$12$something", Valid: true},
		}
		userRepo.On("GetUserByEmail", "dual@example.com").Return(existing, nil).Once()
		userRepo.On("MarkGoogleAccount", 5).Return(nil).Once()

		user, err := googleService.FindOrCreateUser(ctx, "dual@example.com", "Dual User")

		assert.NoError(t, err)
		assert.True(t, user.IsGoogleAccount)
		// The stored password survives linking.
		assert.True(t, user.HashedPassword.Valid)
		userRepo.AssertExpectations(t)
	})

	t.Run("second login is idempotent", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		googleService := NewGoogleAuthService(googleTestConfig(), userRepo, NewUserService(userRepo, nil))

		existing := &model.User{ID: 6, Email: "sso@example.com", IsGoogleAccount: true}
		userRepo.On("GetUserByEmail", "sso@example.com").Return(existing, nil).Once()

		user, err := googleService.FindOrCreateUser(ctx, "sso@example.com", "SSO User")

		assert.NoError(t, err)
		assert.Equal(t, 6, user.ID)
		userRepo.AssertNotCalled(t, "MarkGoogleAccount")
		userRepo.AssertNotCalled(t, "CreateUser")
	})

	t.Run("insert race falls back to the winner's row", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		googleService := NewGoogleAuthService(googleTestConfig(), userRepo, NewUserService(userRepo, nil))

		winner := &model.User{ID: 8, Email: "race@example.com", IsGoogleAccount: true}
		userRepo.On("GetUserByEmail", "race@example.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", mock.Anything).Return(uniqueViolationErr()).Once()
		userRepo.On("GetUserByEmail", "race@example.com").Return(winner, nil).Once()

		user, err := googleService.FindOrCreateUser(ctx, "race@example.com", "Racer")

		assert.NoError(t, err)
		assert.Equal(t, 8, user.ID)
		userRepo.AssertExpectations(t)
	})
}
