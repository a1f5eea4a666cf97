// internal/services/auth_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/config"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

const defaultVerificationTTL = 24 * time.Hour

type AuthService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	notificationService *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strong_password"`
	DisplayName string `json:"display_name,omitempty" validate:"max=100"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`    // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *AuthService {
	return &AuthService{
		db:                  db,
		cfg:                 cfg,
		notificationService: notificationService,
	}
}

func (s *AuthService) verificationTTL() time.Duration {
	if s.cfg.Jobs.UnverifiedUserTTL > 0 {
		return s.cfg.Jobs.UnverifiedUserTTL
	}
	return defaultVerificationTTL
}

// Register creates an unverified account and mails the verification token.
// Accounts not verified in time are removed by the cleanup job.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.WithContext(ctx).Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, utils.NewConflictError("user with this email already exists", nil)
		}
		return nil, utils.NewConflictError("username already taken", nil)
	}

	token, err := utils.GenerateVerificationCode()
	if err != nil {
		return nil, utils.NewInternalError("failed to generate verification token", err)
	}
	expires := time.Now().Add(s.verificationTTL())

	user := &models.User{
		Username:              req.Username,
		Email:                 req.Email,
		Role:                  models.UserRoleUser,
		Status:                models.UserStatusActive,
		DisplayName:           req.DisplayName,
		VerificationToken:     token,
		VerificationExpiresAt: &expires,
	}

	// Set password
	if err := user.SetPassword(req.Password); err != nil {
		return nil, utils.NewInternalError("failed to hash password", err)
	}

	// Save user
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}

	// Send verification email (async)
	if s.notificationService != nil {
		go bestEffort("send verification email", func() error {
			return s.notificationService.SendVerificationEmail(user, token)
		})
	}

	return s.issueTokens(user)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, utils.NewValidationError("verification token is required", nil)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("verification_token = ?", token).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewValidationError("invalid verification token", nil)
		}
		return nil, utils.WrapDBError(err, "user")
	}

	if user.VerificationExpiresAt != nil && user.VerificationExpiresAt.Before(time.Now()) {
		return nil, utils.NewValidationError("verification token has expired", nil)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"email_verified_at":       now,
		"verification_token":      "",
		"verification_expires_at": nil,
	}).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}
	user.EmailVerifiedAt = &now

	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	// Find user by email
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewUnauthorizedError("invalid email or password")
		}
		return nil, utils.WrapDBError(err, "user")
	}

	// Verify password
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, utils.NewUnauthorizedError("invalid email or password")
	}

	// Check if user is suspended or banned
	if user.Status != models.UserStatusActive {
		return nil, utils.NewForbiddenError("account is " + string(user.Status))
	}

	// Update last login time
	now := time.Now()
	user.LastLoginAt = &now
	bestEffort("update last login", func() error {
		return s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login_at", now).Error
	})

	return s.issueTokens(&user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, utils.NewUnauthorizedError("invalid refresh token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, utils.NewUnauthorizedError("invalid refresh token")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NewUnauthorizedError("invalid refresh token")
		}
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, utils.NewForbiddenError("account is not active")
	}

	return s.issueTokens(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, utils.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, utils.NewInternalError("failed to generate refresh token", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
