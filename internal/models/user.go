package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// University is the closed set of supported campuses.
type University string

const (
	UniversitySRMAP University = "SRM_AP"
	UniversityKLU   University = "KLU"
)

// SupportedUniversities maps each campus to the email domains accepted for
// university-email verification.
var SupportedUniversities = map[University][]string{
	UniversitySRMAP: {"srmap.edu.in"},
	UniversityKLU:   {"kluniversity.in"},
}

func (u University) Valid() bool {
	_, ok := SupportedUniversities[u]
	return ok
}

type User struct {
	ID                      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email                   string             `json:"email" bson:"email"`
	Name                    string             `json:"name,omitempty" bson:"name,omitempty"`
	University              University         `json:"university,omitempty" bson:"university,omitempty"`
	UniversityEmail         string             `json:"universityEmail,omitempty" bson:"university_email,omitempty"`
	IsUniversityVerified    bool               `json:"isUniversityVerified" bson:"is_university_verified"`
	UniversityOtp           string             `json:"-" bson:"university_otp,omitempty"`
	UniversityOtpExpiry     *time.Time         `json:"-" bson:"university_otp_expiry,omitempty"`
	PendingUniversityEmail  string             `json:"-" bson:"pending_university_email,omitempty"`
	Skills                  []string           `json:"skills" bson:"skills"`
	About                   string             `json:"about,omitempty" bson:"about,omitempty"`
	YearOfStudy             string             `json:"yearOfStudy,omitempty" bson:"year_of_study,omitempty"`
	Profession              string             `json:"profession,omitempty" bson:"profession,omitempty"`
	ProfileImage            string             `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
	CreatedAt               time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt               time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ProfileComplete reports whether the user can act on campus-scoped
// resources: jobs and products require name, university, skills and about.
func (u *User) ProfileComplete() bool {
	return u.Name != "" && u.University != "" && len(u.Skills) > 0 && u.About != ""
}

// UserSummary is the populated shape of a user reference in responses.
type UserSummary struct {
	ID                   primitive.ObjectID `json:"id"`
	Name                 string             `json:"name,omitempty"`
	Email                string             `json:"email"`
	University           University         `json:"university,omitempty"`
	IsUniversityVerified bool               `json:"isUniversityVerified,omitempty"`
	Skills               []string           `json:"skills,omitempty"`
	About                string             `json:"about,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		University:           u.University,
		IsUniversityVerified: u.IsUniversityVerified,
	}
}

// UserRef is a typed reference: the raw ID is always present, the resolved
// user only when the reference has been populated. Identity comparisons go
// through ID, never through the resolved object.
type UserRef struct {
	ID   primitive.ObjectID `json:"id"`
	User *UserSummary       `json:"user,omitempty"`
}

// UserProfileUpdate is the PUT /api/users/me request body.
type UserProfileUpdate struct {
	Name         string   `json:"name"`
	University   string   `json:"university,omitempty"`
	Skills       []string `json:"skills"`
	About        string   `json:"about"`
	YearOfStudy  *string  `json:"yearOfStudy,omitempty"`
	Profession   *string  `json:"profession,omitempty"`
	ProfileImage *string  `json:"profileImage,omitempty"`
}

// UserProfile is the user payload returned by auth and profile endpoints.
type UserProfile struct {
	ID              primitive.ObjectID `json:"id"`
	Email           string             `json:"email"`
	Name            string             `json:"name,omitempty"`
	University      University         `json:"university,omitempty"`
	UniversityEmail string             `json:"universityEmail,omitempty"`
	IsUniversityVerified bool          `json:"isUniversityVerified"`
	Skills          []string           `json:"skills"`
	About           string             `json:"about,omitempty"`
	YearOfStudy     string             `json:"yearOfStudy,omitempty"`
	Profession      string             `json:"profession,omitempty"`
	ProfileImage    string             `json:"profileImage,omitempty"`
	ProfileComplete bool               `json:"profileComplete"`
	CreatedAt       time.Time          `json:"createdAt"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		University:      u.University,
		UniversityEmail: u.UniversityEmail,
		IsUniversityVerified: u.IsUniversityVerified,
		Skills:          u.Skills,
		About:           u.About,
		YearOfStudy:     u.YearOfStudy,
		Profession:      u.Profession,
		ProfileImage:    u.ProfileImage,
		ProfileComplete: u.ProfileComplete(),
		CreatedAt:       u.CreatedAt,
	}
}
