package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
	"unihub/internal/utils"
)

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.UserProfileUpdate) (*models.UserProfile, error)
	SendUniversityOtp(ctx context.Context, userID primitive.ObjectID, universityEmail string) error
	VerifyUniversityOtp(ctx context.Context, userID primitive.ObjectID, code string) (*models.UserProfile, error)
}

type userService struct {
	users    repositories.UserRepository
	notifier Notifier
}

func NewUserService(users repositories.UserRepository, notifier Notifier) UserService {
	return &userService{users: users, notifier: notifier}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user.Profile(), nil
}

// UpdateProfile applies the editable fields. University is write-once: the
// first non-empty value locks it, and later requests carrying a different
// value are rejected.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.UserProfileUpdate) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	set := bson.M{}
	unset := bson.M{}
	if req.Name != "" {
		set["name"] = strings.TrimSpace(req.Name)
	}
	if req.Skills != nil {
		set["skills"] = req.Skills
	}
	if req.About != "" {
		set["about"] = strings.TrimSpace(req.About)
	}
	// Pointer fields distinguish "leave alone" (absent) from "clear" (empty).
	setOrClear := func(field string, value *string, transform func(string) string) {
		if value == nil {
			return
		}
		if *value == "" {
			unset[field] = ""
			return
		}
		v := *value
		if transform != nil {
			v = transform(v)
		}
		set[field] = v
	}
	setOrClear("year_of_study", req.YearOfStudy, nil)
	setOrClear("profession", req.Profession, nil)
	setOrClear("profile_image", req.ProfileImage, utils.OptimizeImageURL)

	if req.University != "" {
		requested := models.University(req.University)
		if !requested.Valid() {
			return nil, apperrors.Invalid("Unsupported university")
		}
		if user.University != "" && user.University != requested {
			return nil, apperrors.Forbidden("University cannot be changed once set")
		}
		if user.University == "" {
			set["university"] = requested
		}
	}

	if len(set) > 0 || len(unset) > 0 {
		if err := s.users.Update(ctx, userID, set, unset); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return updated.Profile(), nil
}

// SendUniversityOtp starts university-email verification. The caller must
// have picked a campus already, and the address must belong to that campus's
// domain allow-list.
func (s *userService) SendUniversityOtp(ctx context.Context, userID primitive.ObjectID, universityEmail string) error {
	universityEmail = normalizeEmail(universityEmail)
	if !validEmail(universityEmail) {
		return apperrors.Invalid("A valid university email is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User not found")
	}
	if user.University == "" {
		return apperrors.Invalid("Set your university before verifying a university email")
	}
	if user.IsUniversityVerified {
		return apperrors.Invalid("University email is already verified")
	}

	campus, ok := universityForEmail(universityEmail)
	if !ok || campus != user.University {
		return apperrors.Invalid("Email domain does not match your university")
	}

	code, err := utils.GenerateSecureOTP(otpLength)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(otpTTL)
	if err := s.users.Update(ctx, userID, bson.M{
		"pending_university_email": universityEmail,
		"university_otp":           code,
		"university_otp_expiry":    expiry,
	}, nil); err != nil {
		return err
	}

	s.notifier.SendUniversityOtp(universityEmail, code)
	return nil
}

// VerifyUniversityOtp completes verification: the pending address becomes the
// verified university email and the scratch fields are cleared in one update.
func (s *userService) VerifyUniversityOtp(ctx context.Context, userID primitive.ObjectID, code string) (*models.UserProfile, error) {
	if code == "" {
		return nil, apperrors.Invalid("OTP is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	if user.PendingUniversityEmail == "" || user.UniversityOtp == "" {
		return nil, apperrors.Invalid("No verification in progress. Request a new code first.")
	}
	if user.UniversityOtp != code {
		return nil, apperrors.Unauthorized("Invalid OTP")
	}
	if user.UniversityOtpExpiry == nil || time.Now().After(*user.UniversityOtpExpiry) {
		return nil, apperrors.Unauthorized("OTP has expired. Please request a new one.")
	}

	set := bson.M{
		"university_email":       user.PendingUniversityEmail,
		"is_university_verified": true,
	}
	unset := bson.M{
		"pending_university_email": "",
		"university_otp":           "",
		"university_otp_expiry":    "",
	}
	if err := s.users.Update(ctx, userID, set, unset); err != nil {
		return nil, err
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return updated.Profile(), nil
}

// universityForEmail resolves the campus owning an email's domain.
func universityForEmail(email string) (models.University, bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", false
	}
	domain := email[at+1:]
	for campus, domains := range models.SupportedUniversities {
		for _, d := range domains {
			if strings.EqualFold(domain, d) {
				return campus, true
			}
		}
	}
	return "", false
}
