package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"go-booking-api/common"
	"go-booking-api/model"
	"go-booking-api/service"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

type AuthHandler struct {
	authService   *service.AuthService
	googleService *service.GoogleAuthService
	userService   *service.UserService
}

func NewAuthHandler(authService *service.AuthService, googleService *service.GoogleAuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
		userService:   userService,
	}
}

// Signup godoc
// @Summary      Create a password account
// @Description  Registers a new user and returns the first token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup body model.SignupRequest true "Account details"
// @Success      201  {object}  model.TokenPair
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Email already registered"
// @Router       /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignupRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	_, pair, err := h.authService.Signup(req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create account", err)
	}

	writeJSON(w, http.StatusCreated, pair)
	return nil
}

// Login godoc
// @Summary      Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login body model.LoginRequest true "Credentials"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Invalid email or password"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	_, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	writeJSON(w, http.StatusOK, pair)
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Consumes the presented refresh token (one-time use) and returns a new pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Refresh-Token header string false "Refresh token"
// @Param        refresh body model.RefreshRequest false "Refresh token in the body"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Invalid or expired refresh token"
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	token := refreshTokenFromRequest(r)
	if token == "" {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token required (header X-Refresh-Token or body refresh_token)", nil)
	}

	_, pair, err := h.authService.Refresh(token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh tokens", err)
	}

	writeJSON(w, http.StatusOK, pair)
	return nil
}

// Logout godoc
// @Summary      Revoke the presented refresh token
// @Tags         auth
// @Produce      json
// @Param        X-Refresh-Token header string false "Refresh token"
// @Success      200  {object}  map[string]string
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if token := refreshTokenFromRequest(r); token != "" {
		h.authService.Logout(token)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}

// Me godoc
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.UserPublic
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.userService.GetPublicByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusUnauthorized, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not load user", err)
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

// GoogleLogin godoc
// @Summary      Start the Google SSO flow
// @Description  Redirects to Google when an allowed redirect_uri is given, otherwise returns the authorization URL.
// @Tags         auth
// @Produce      json
// @Param        redirect_uri query string false "Frontend URI to receive tokens after callback"
// @Success      200  {object}  map[string]string
// @Router       /api/v1/auth/google [get]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) *common.AppError {
	redirect := r.URL.Query().Get("redirect_uri")
	if redirect != "" && h.googleService.IsAllowedRedirect(redirect) {
		http.Redirect(w, r, h.googleService.AuthorizationURL(redirect, ""), http.StatusFound)
		return nil
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		state = uuid.NewString()
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"authorization_url": h.googleService.AuthorizationURL("", state),
	})
	return nil
}

// GoogleCallback godoc
// @Summary      Complete the Google SSO flow
// @Description  Exchanges the authorization code, links or creates the account, and issues tokens.
// @Tags         auth
// @Produce      json
// @Param        code query string true "Authorization code from Google"
// @Param        state query string false "Opaque state from the start of the flow"
// @Success      200  {object}  model.TokenPair
// @Failure      502  {object}  common.AppError "Identity provider unavailable"
// @Router       /api/v1/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) *common.AppError {
	code := r.URL.Query().Get("code")
	if code == "" {
		return common.NewAppError(http.StatusBadRequest, "Missing authorization code", nil)
	}

	accessToken, err := h.googleService.ExchangeCode(r.Context(), code)
	if err != nil {
		return googleError(err)
	}

	email, name, err := h.googleService.FetchProfile(r.Context(), accessToken)
	if err != nil {
		return googleError(err)
	}

	user, err := h.googleService.FindOrCreateUser(r.Context(), email, name)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not link Google account", err)
	}

	pair, err := h.authService.IssueSession(user, "google")
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not issue tokens", err)
	}

	if frontend := h.googleService.DecodeStateRedirect(r.URL.Query().Get("state")); frontend != "" {
		fragment := url.Values{}
		fragment.Set("access_token", pair.AccessToken)
		fragment.Set("refresh_token", pair.RefreshToken)
		fragment.Set("expires_in", strconv.Itoa(pair.ExpiresIn))
		http.Redirect(w, r, frontend+"#"+fragment.Encode(), http.StatusFound)
		return nil
	}

	writeJSON(w, http.StatusOK, pair)
	return nil
}

func googleError(err error) *common.AppError {
	if errors.Is(err, service.ErrGoogleUnavailable) {
		return common.NewAppError(http.StatusBadGateway, err.Error(), err)
	}
	return common.NewAppError(http.StatusInternalServerError, "Google sign-in failed", err)
}

func refreshTokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("X-Refresh-Token"); token != "" {
		return token
	}
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}
