package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// AuthService handles registration, credentials and the session token lifecycle.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenIssuer
	media    MediaStore
	events   EventPublisher
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenIssuer, media MediaStore, events EventPublisher, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		media:    media,
		events:   events,
		logger:   nopIfNil(logger),
	}
}

// RegisterInput carries a registration request. File fields are local temp paths.
type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// Register creates a new account with a hashed password and uploaded avatar.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = models.NormalizeIdentity(in.Username)
	in.Email = models.NormalizeIdentity(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Username == "" || in.Email == "" || in.FullName == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apierror.BadRequest("All fields are required")
	}
	if in.AvatarPath == "" {
		return nil, apierror.BadRequest("Avatar file is required")
	}

	if _, err := s.userRepo.GetByUsernameOrEmail(ctx, in.Username, in.Email); err == nil {
		return nil, apierror.Conflict("User with email or username already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apierror.Internal(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.Internal(err)
	}

	avatar, cover, err := uploadPair(ctx, s.media, s.logger, in.AvatarPath, in.CoverImagePath)
	if err != nil {
		return nil, apierror.Upstream("Failed to upload avatar or cover image", err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		Avatar:         avatar.URL,
		AvatarPublicID: avatar.PublicID,
		Password:       string(hashedPassword),
	}
	if cover != nil {
		user.CoverImage = cover.URL
		user.CoverImagePublicID = cover.PublicID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		discardAssets(ctx, s.media, s.logger, avatar, cover)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apierror.Conflict("User with email or username already exists")
		}
		return nil, apierror.Upstream("Something went wrong while registering the user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
	publish(ctx, s.events, s.logger, EventUserRegistered, map[string]string{
		"userId":   user.ID.String(),
		"username": user.Username,
	})
	return user, nil
}

// Login verifies credentials by username or email and starts a session.
func (s *AuthService) Login(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	if strings.TrimSpace(username) == "" && strings.TrimSpace(email) == "" {
		return nil, nil, apierror.BadRequest("Username or email is required")
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, nil, readFailed(err, "User does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, apierror.Unauthorized("Invalid user credentials")
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.tokens.Pair(user)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, writeFailed(err, "Failed to store session")
	}
	return pair, nil
}

// Refresh exchanges a valid, current refresh token for a new token pair.
// The stored token is swapped conditionally so a token can be used exactly once.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, apierror.Unauthorized("Unauthorized request")
	}

	claims, err := s.tokens.ParseRefresh(presented)
	if err != nil {
		return nil, apierror.Wrap(http.StatusUnauthorized, "Invalid refresh token", err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.Unauthorized("Invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apierror.Unauthorized("Invalid refresh token")
		}
		return nil, apierror.Internal(err)
	}

	pair, err := s.tokens.Pair(user)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	rotated, err := s.userRepo.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, writeFailed(err, "Failed to rotate session")
	}
	if !rotated {
		s.logger.Warn("stale refresh token presented", zap.String("user_id", user.ID.String()))
		return nil, apierror.Unauthorized("Refresh token is expired or used")
	}
	return pair, nil
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		return writeFailed(err, "Failed to end session")
	}
	return nil
}

// ChangePassword replaces the password after verifying the old one and revokes the session.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apierror.BadRequest("Old and new password are required")
	}
	if newPassword != confirmPassword {
		return apierror.BadRequest("New password and confirm password do not match")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return readFailed(err, "User does not exist")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apierror.Unauthorized("Invalid old password")
	}
	if oldPassword == newPassword {
		return apierror.BadRequest("New password must differ from the old password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apierror.Internal(err)
	}
	err = s.userRepo.Update(ctx, userID, map[string]interface{}{
		"password":      string(hashed),
		"refresh_token": nil,
	})
	if err != nil {
		return writeFailed(err, "Failed to change password")
	}
	return nil
}

// Authenticate resolves the user behind an access token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, apierror.Wrap(http.StatusUnauthorized, "Invalid access token", err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.Unauthorized("Invalid access token")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apierror.Unauthorized("Invalid access token")
		}
		return nil, apierror.Internal(err)
	}
	return user, nil
}
