package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"homecare-app-server/internal/booking"
	"homecare-app-server/internal/config"
	"homecare-app-server/internal/middleware"
	"homecare-app-server/internal/models"
	"homecare-app-server/internal/utils"
)

const refreshTokenCookie = "refresh_token"

// AccountStore is the persistence the auth and admin handlers need.
// Finders return nil, nil for unknown records.
type AccountStore interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindActiveRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Store AccountStore
	Cfg   *config.Config
	Log   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AccountStore, cfg *config.Config, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{Store: store, Cfg: cfg, Log: logger}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,fullname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role"`
}

// RegisterResponse tells the client which role the account received.
type RegisterResponse struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

// Register handles user registration. Only Personnel may be requested;
// every other value registers a Patient.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	email := normalizeEmail(req.Email)

	existing, err := h.Store.FindUserByEmail(ctx, email)
	if err != nil {
		h.fail(c, "lookup user by email", err)
		return
	}
	if existing != nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	}

	role := models.RolePatient
	if strings.EqualFold(strings.TrimSpace(req.Role), string(models.RolePersonnel)) {
		role = models.RolePersonnel
	}

	user := models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		h.fail(c, "hash password", err)
		return
	}
	user.Roles = []models.UserRole{{Role: role}}

	if err := h.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			utils.BadRequest(c, "User with this email already exists")
			return
		}
		h.fail(c, "create user", err)
		return
	}

	h.Log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	utils.Created(c, "User registered successfully", RegisterResponse{ID: user.ID, Role: role})
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	Token        string               `json:"token"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Store.FindUserByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		h.fail(c, "lookup user by email", err)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	access, refresh, ok := h.issueTokens(c, user)
	if !ok {
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         user.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken exchanges a refresh token for a new token pair. The
// presented refresh token is revoked.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	presented, err := c.Cookie(refreshTokenCookie)
	if err != nil || presented == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		presented = req.RefreshToken
	}

	claims, err := utils.ValidateRefreshToken(presented, h.Cfg)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}
	userID := booking.CurrentUserID(claims.UserIDs)

	ctx := c.Request.Context()
	stored, err := h.Store.FindActiveRefreshToken(ctx, presented, userID)
	if err != nil {
		h.fail(c, "lookup refresh token", err)
		return
	}
	if stored == nil || !stored.Usable(time.Now()) {
		utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		return
	}

	user, err := h.Store.FindUser(ctx, userID)
	if err != nil {
		h.fail(c, "lookup user", err)
		return
	}
	if user == nil {
		utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		return
	}

	if err := h.Store.RevokeRefreshToken(ctx, presented); err != nil {
		h.fail(c, "revoke refresh token", err)
		return
	}

	access, refresh, ok := h.issueTokens(c, user)
	if !ok {
		return
	}

	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		Token:        access,
		RefreshToken: refresh,
	})
}

// LogoutRequest represents the optional request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the presented refresh token, if any, and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	presented, _ := c.Cookie(refreshTokenCookie)
	if presented == "" && c.Request.ContentLength > 0 {
		var req LogoutRequest
		if !bindJSON(c, &req) {
			return
		}
		presented = req.RefreshToken
	}

	if presented != "" {
		if err := h.Store.RevokeRefreshToken(c.Request.Context(), presented); err != nil {
			h.fail(c, "revoke refresh token", err)
			return
		}
	}

	h.clearCookie(c, middleware.AccessTokenCookie)
	h.clearCookie(c, refreshTokenCookie)
	utils.Success(c, "Logout successful", nil)
}

// GetProfile handles fetching the currently authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// UpdateProfileRequest represents the request body for updating user profile.
type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"required,fullname"`
}

// UpdateProfile changes the caller's display name.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	user.FullName = strings.TrimSpace(req.FullName)
	if err := h.Store.SaveUser(c.Request.Context(), user); err != nil {
		h.fail(c, "update profile", err)
		return
	}
	utils.Success(c, "Profile updated successfully", user.Sanitize())
}

func (h *AuthHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	user, err := h.Store.FindUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "lookup user", err)
		return nil, false
	}
	if user == nil {
		utils.NotFound(c, "User profile not found")
		return nil, false
	}
	return user, true
}

// issueTokens signs a token pair, stores the refresh token and sets both
// cookies. It answers 500 itself on failure.
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (string, string, bool) {
	access, refresh, err := utils.GenerateTokens(user, h.Cfg)
	if err != nil {
		h.fail(c, "generate tokens", err)
		return "", "", false
	}

	refreshTTL := time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour
	stored := models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTTL),
	}
	if err := h.Store.CreateRefreshToken(c.Request.Context(), &stored); err != nil {
		h.fail(c, "store refresh token", err)
		return "", "", false
	}

	secure := !h.Cfg.IsDevelopment()
	c.SetCookie(middleware.AccessTokenCookie, access, h.Cfg.JWTExpirationMinutes*60, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, refresh, int(refreshTTL.Seconds()), "/", "", secure, true)
	return access, refresh, true
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", !h.Cfg.IsDevelopment(), true)
}

func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	h.Log.Error().Err(err).Str("op", op).Msg("auth request failed")
	utils.InternalServerError(c, "Internal server error")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
