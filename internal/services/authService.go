package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
	"unihub/internal/utils"
)

const (
	otpLength       = 6
	otpTTL          = 5 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type AuthService interface {
	SendOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email, code string) (*models.AuthResult, error)
	Refresh(ctx context.Context, token string) (*models.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	users    repositories.UserRepository
	otps     repositories.OtpRepository
	sessions repositories.RefreshTokenRepository
	notifier Notifier
}

func NewAuthService(users repositories.UserRepository, otps repositories.OtpRepository, sessions repositories.RefreshTokenRepository, notifier Notifier) AuthService {
	return &authService{users: users, otps: otps, sessions: sessions, notifier: notifier}
}

// SendOtp issues a fresh passcode for the address, replacing any earlier one.
// The email is fire-and-forget so the endpoint stays fast.
func (s *authService) SendOtp(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return apperrors.Invalid("A valid email is required")
	}

	if err := s.otps.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("clearing previous otps: %w", err)
	}

	code, err := utils.GenerateSecureOTP(otpLength)
	if err != nil {
		return fmt.Errorf("generating otp: %w", err)
	}

	if _, err := s.otps.Create(ctx, &models.Otp{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}); err != nil {
		return err
	}

	s.notifier.SendLoginOtp(email, code)
	log.Info().Str("email", email).Msg("Login OTP issued")
	return nil
}

// VerifyOtp exchanges a valid passcode for a session, creating the account on
// first login.
func (s *authService) VerifyOtp(ctx context.Context, email, code string) (*models.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, apperrors.Invalid("Email and OTP are required")
	}

	otp, err := s.otps.Find(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, apperrors.Invalid("Invalid OTP")
	}
	if time.Now().After(otp.ExpiresAt) {
		_ = s.otps.DeleteByID(ctx, otp.ID)
		return nil, apperrors.Invalid("OTP has expired. Please request a new one.")
	}
	if err := s.otps.DeleteByID(ctx, otp.ID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.Create(ctx, &models.User{Email: email, Skills: []string{}})
		if err != nil {
			// A concurrent first login may have created the account already.
			if apperrors.IsCode(err, apperrors.CodeConflict) {
				user, err = s.users.FindByEmail(ctx, email)
				if err != nil {
					return nil, err
				}
			}
			if user == nil {
				return nil, err
			}
		}
	}

	accessToken, err := utils.GenerateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}
	if _, err := s.sessions.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &models.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Profile(),
	}, nil
}

// Refresh mints a new access token against a live refresh token. The refresh
// token itself is not rotated.
func (s *authService) Refresh(ctx context.Context, token string) (*models.AuthResult, error) {
	if token == "" {
		return nil, apperrors.Invalid("Refresh token is required")
	}

	record, err := s.sessions.FindActive(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	if time.Now().After(record.ExpiresAt) {
		_ = s.sessions.DeleteByID(ctx, record.ID)
		return nil, apperrors.Unauthorized("Refresh token has expired. Please log in again.")
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.sessions.DeleteByID(ctx, record.ID)
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	accessToken, err := utils.GenerateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	return &models.AuthResult{
		AccessToken: accessToken,
		User:        user.Profile(),
	}, nil
}

// Logout revokes the session. Unknown tokens succeed silently so logout never
// fails client-side.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
