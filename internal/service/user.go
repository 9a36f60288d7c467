package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"flock/internal/domain"
	"flock/internal/logger"
	"flock/internal/repository"
)

// VerificationWindow is how long a student verification code stays valid.
const VerificationWindow = 10 * time.Minute

var eduEmailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.edu$`)

// UserService manages profiles, driver registration and student verification.
type UserService struct {
	userRepo    repository.UserRepository
	exposeCodes bool
	log         logger.Logger
}

// NewUserService creates a new UserService. When exposeCodes is set, generated
// verification codes are returned to the caller instead of only being stored.
func NewUserService(userRepo repository.UserRepository, exposeCodes bool, log logger.Logger) *UserService {
	return &UserService{userRepo: userRepo, exposeCodes: exposeCodes, log: log}
}

// ProfileInput contains the editable profile fields.
type ProfileInput struct {
	Name             string
	PhoneNumber      string
	ProfilePhotoURL  string
	Major            string
	AcademicYear     string
	Vibe             string
	FavoritePlaylist string
	Gender           string
	Car              domain.CarProfileInput
}

// VerificationResult is the outcome of a student verification step.
type VerificationResult struct {
	User    *domain.User
	Message string
	Code    string // set only when codes are exposed
}

// GetProfile returns the caller's account.
func (s *UserService) GetProfile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.load(ctx, p.ID)
}

// UpdateProfile replaces the caller's profile. A complete car profile makes
// the caller a driver, no car fields make them a rider, and partial car
// fields are rejected.
func (s *UserService) UpdateProfile(ctx context.Context, p domain.Principal, in ProfileInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.PhoneNumber)
	photo := strings.TrimSpace(in.ProfilePhotoURL)
	if name == "" || phone == "" || photo == "" {
		return nil, ErrProfileFieldsRequired
	}

	car, err := domain.NewCarProfile(in.Car)
	if err != nil {
		return nil, err
	}

	gender, err := domain.NormalizeGender(in.Gender)
	if car != nil && gender == "" {
		return nil, ErrDriverGenderRequired
	}
	if err != nil {
		return nil, err
	}

	user, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.PhoneNumber = phone
	user.ProfilePhotoURL = photo
	user.Major = strings.TrimSpace(in.Major)
	user.AcademicYear = strings.TrimSpace(in.AcademicYear)
	user.Vibe = strings.TrimSpace(in.Vibe)
	user.FavoritePlaylist = strings.TrimSpace(in.FavoritePlaylist)
	user.Gender = gender
	user.Car = car
	user.IsDriver = car != nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SaveDriverProfile registers the caller as a driver.
func (s *UserService) SaveDriverProfile(ctx context.Context, p domain.Principal, car domain.CarProfileInput, gender string) (*domain.User, error) {
	profile, err := domain.NewCarProfile(car)
	if err != nil || profile == nil {
		return nil, ErrCarFieldsRequired
	}

	g, err := domain.NormalizeGender(gender)
	if err != nil || g == "" {
		return nil, ErrDriverGenderRequired
	}

	user, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	user.Car = profile
	user.Gender = g
	user.IsDriver = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("driver profile saved", logger.String("user_id", user.ID))
	return user, nil
}

// StartStudentVerification issues a six digit code for a .edu address.
func (s *UserService) StartStudentVerification(ctx context.Context, p domain.Principal, studentEmail string) (*VerificationResult, error) {
	email := strings.ToLower(strings.TrimSpace(studentEmail))
	if email == "" {
		return nil, ErrStudentEmailRequired
	}
	if !eduEmailPattern.MatchString(email) {
		return nil, ErrInvalidStudentEmail
	}

	user, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if user.Student.Verified && strings.EqualFold(user.Student.Email, email) {
		return &VerificationResult{User: user, Message: "That school email is already verified."}, nil
	}

	code, err := verificationCode()
	if err != nil {
		return nil, err
	}

	user.Student.PendingEmail = email
	user.Student.Code = code
	user.Student.ExpiresAt = time.Now().Add(VerificationWindow)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	result := &VerificationResult{User: user, Message: "Verification code generated. Check your school inbox."}
	if s.exposeCodes {
		result.Message = "Verification code generated. In local development, use the code shown in the app."
		result.Code = code
	}
	return result, nil
}

// ConfirmStudentVerification checks the code and records the verified school.
func (s *UserService) ConfirmStudentVerification(ctx context.Context, p domain.Principal, code string) (*VerificationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrVerificationCodeRequired
	}

	user, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	sv := &user.Student
	if sv.PendingEmail == "" || sv.Code == "" {
		return nil, ErrNoPendingVerification
	}
	if sv.Code != code {
		return nil, ErrWrongVerificationCode
	}
	if sv.ExpiresAt.IsZero() || sv.ExpiresAt.Before(time.Now()) {
		return nil, ErrVerificationExpired
	}

	sv.Email = sv.PendingEmail
	sv.SchoolName = SchoolNameFromEmail(sv.PendingEmail)
	sv.Verified = true
	sv.VerifiedAt = time.Now()
	sv.PendingEmail = ""
	sv.Code = ""
	sv.ExpiresAt = time.Time{}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &VerificationResult{User: user, Message: "Student email verified."}, nil
}

// SchoolNameFromEmail derives a display name from the label before "edu" in
// the email domain. Short alphabetic parts are treated as acronyms.
func SchoolNameFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	domainPart := strings.ToLower(email[at+1:])

	var labels []string
	for _, l := range strings.Split(domainPart, ".") {
		if l != "" {
			labels = append(labels, l)
		}
	}

	base := "Student"
	eduIndex := -1
	for i, l := range labels {
		if l == "edu" {
			eduIndex = i
		}
	}
	switch {
	case eduIndex > 0:
		base = labels[eduIndex-1]
	case len(labels) > 0:
		base = labels[0]
	}

	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if len(w) <= 4 && isLetters(w) {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *UserService) load(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
