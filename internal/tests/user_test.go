package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"flock/internal/domain"
	"flock/internal/logger"
	"flock/internal/service"
)

func completeCar() domain.CarProfileInput {
	return domain.CarProfileInput{Make: "Toyota", Model: "Corolla", Color: "Silver", PlateState: "CA", PlateNumber: "7XYZ123"}
}

// TestAuth_RegisterAndLogin verifies the account round trip and token contents.
func TestAuth_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	res, err := env.AuthService.Register(ctx, service.RegisterInput{
		Name:            " Riley ",
		Email:           " Riley@Example.EDU ",
		Password:        "hunter22",
		PhoneNumber:     "555-0101",
		ProfilePhotoURL: "https://cdn.test/riley.jpg",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if res.User.Email != "riley@example.edu" || res.User.Name != "Riley" {
		t.Errorf("Expected normalized fields, got %q/%q", res.User.Email, res.User.Name)
	}
	if res.User.PasswordHash == "hunter22" || res.User.PasswordHash == "" {
		t.Error("Expected password to be hashed")
	}

	principal, err := env.Tokens.Parse(res.Token)
	if err != nil {
		t.Fatalf("Token did not parse: %v", err)
	}
	if principal.ID != res.User.ID {
		t.Errorf("Expected token for %s, got %s", res.User.ID, principal.ID)
	}

	if _, err := env.AuthService.Login(ctx, "RILEY@example.edu", "hunter22"); err != nil {
		t.Errorf("Login failed: %v", err)
	}
	if _, err := env.AuthService.Login(ctx, "riley@example.edu", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := env.AuthService.Login(ctx, "nobody@example.edu", "hunter22"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := env.AuthService.Login(ctx, "", "x"); !errors.Is(err, service.ErrLoginFieldsRequired) {
		t.Errorf("Expected ErrLoginFieldsRequired, got %v", err)
	}
}

// TestAuth_RegisterValidation covers missing fields and duplicate emails.
func TestAuth_RegisterValidation(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()

	in := service.RegisterInput{Name: "A", Email: "a@example.edu", Password: "pw", PhoneNumber: "1", ProfilePhotoURL: "p"}
	if _, err := env.AuthService.Register(ctx, in); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	dup := in
	dup.Email = "A@EXAMPLE.EDU"
	if _, err := env.AuthService.Register(ctx, dup); !errors.Is(err, service.ErrEmailInUse) {
		t.Errorf("Expected ErrEmailInUse, got %v", err)
	}

	missing := in
	missing.ProfilePhotoURL = "  "
	missing.Email = "b@example.edu"
	if _, err := env.AuthService.Register(ctx, missing); !errors.Is(err, service.ErrRegistrationFieldsRequired) {
		t.Errorf("Expected ErrRegistrationFieldsRequired, got %v", err)
	}
}

// TestUpdateProfile_DriverRegistration verifies car fields decide driver status.
func TestUpdateProfile_DriverRegistration(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()
	me := env.AddUser("riley")

	base := service.ProfileInput{Name: "Riley", PhoneNumber: "555", ProfilePhotoURL: "https://cdn.test/r.jpg", Major: " CS "}

	withCar := base
	withCar.Car = completeCar()
	withCar.Gender = "Female"
	user, err := env.UserService.UpdateProfile(ctx, me, withCar)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if !user.IsDriver || user.Car == nil || user.Gender != domain.GenderFemale || user.Major != "CS" {
		t.Errorf("Expected a female driver majoring in CS, got %+v", user)
	}

	user, err = env.UserService.UpdateProfile(ctx, me, base)
	if err != nil {
		t.Fatalf("UpdateProfile without car failed: %v", err)
	}
	if user.IsDriver || user.Car != nil {
		t.Error("Expected clearing the car to make the user a rider")
	}

	tests := []struct {
		name    string
		mutate  func(in *service.ProfileInput)
		wantErr error
	}{
		{"missing phone", func(in *service.ProfileInput) { in.PhoneNumber = "" }, service.ErrProfileFieldsRequired},
		{"partial car", func(in *service.ProfileInput) { in.Car = domain.CarProfileInput{Make: "Kia"} }, domain.ErrIncompleteCarProfile},
		{"car without gender", func(in *service.ProfileInput) { in.Car = completeCar() }, service.ErrDriverGenderRequired},
		{"invalid gender", func(in *service.ProfileInput) { in.Gender = "other" }, domain.ErrInvalidGender},
	}
	for _, tt := range tests {
		in := base
		tt.mutate(&in)
		if _, err := env.UserService.UpdateProfile(ctx, me, in); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

// TestSaveDriverProfile verifies the dedicated driver registration path.
func TestSaveDriverProfile(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()
	me := env.AddUser("riley")

	if _, err := env.UserService.SaveDriverProfile(ctx, me, domain.CarProfileInput{}, "male"); !errors.Is(err, service.ErrCarFieldsRequired) {
		t.Errorf("Expected ErrCarFieldsRequired, got %v", err)
	}
	if _, err := env.UserService.SaveDriverProfile(ctx, me, completeCar(), ""); !errors.Is(err, service.ErrDriverGenderRequired) {
		t.Errorf("Expected ErrDriverGenderRequired, got %v", err)
	}

	user, err := env.UserService.SaveDriverProfile(ctx, me, completeCar(), "MALE")
	if err != nil {
		t.Fatalf("SaveDriverProfile failed: %v", err)
	}
	if !user.IsDriver || user.Gender != domain.GenderMale {
		t.Errorf("Expected male driver, got %+v", user)
	}

	if _, err := env.TripService.CreateTrip(ctx, me, tripInput(2, time.Now().Add(time.Hour))); err != nil {
		t.Errorf("Expected the new driver to post a trip, got %v", err)
	}
}

// TestStudentVerification_Flow walks a code from issue to confirmation.
func TestStudentVerification_Flow(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()
	me := env.AddUser("riley")

	if _, err := env.UserService.StartStudentVerification(ctx, me, "riley@gmail.com"); !errors.Is(err, service.ErrInvalidStudentEmail) {
		t.Errorf("Expected ErrInvalidStudentEmail, got %v", err)
	}
	if _, err := env.UserService.ConfirmStudentVerification(ctx, me, "123456"); !errors.Is(err, service.ErrNoPendingVerification) {
		t.Errorf("Expected ErrNoPendingVerification, got %v", err)
	}

	started, err := env.UserService.StartStudentVerification(ctx, me, " Riley@CS.Stanford.edu ")
	if err != nil {
		t.Fatalf("StartStudentVerification failed: %v", err)
	}
	if len(started.Code) != 6 {
		t.Fatalf("Expected a 6 digit code, got %q", started.Code)
	}
	if started.User.Student.PendingEmail != "riley@cs.stanford.edu" {
		t.Errorf("Unexpected pending email %q", started.User.Student.PendingEmail)
	}

	wrong := "000000"
	if started.Code == wrong {
		wrong = "111111"
	}
	if _, err := env.UserService.ConfirmStudentVerification(ctx, me, wrong); !errors.Is(err, service.ErrWrongVerificationCode) {
		t.Errorf("Expected ErrWrongVerificationCode, got %v", err)
	}

	done, err := env.UserService.ConfirmStudentVerification(ctx, me, started.Code)
	if err != nil {
		t.Fatalf("ConfirmStudentVerification failed: %v", err)
	}
	sv := done.User.Student
	if !sv.Verified || sv.SchoolName != "Stanford" || sv.Email != "riley@cs.stanford.edu" || sv.PendingEmail != "" {
		t.Errorf("Unexpected verification state %+v", sv)
	}

	again, err := env.UserService.StartStudentVerification(ctx, me, "riley@cs.stanford.edu")
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if again.Code != "" || again.Message != "That school email is already verified." {
		t.Errorf("Expected already-verified response, got %+v", again)
	}
}

// TestStudentVerification_Expired verifies a code past its window is refused.
func TestStudentVerification_Expired(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	ctx := context.Background()
	me := env.AddUser("riley")

	started, err := env.UserService.StartStudentVerification(ctx, me, "riley@mit.edu")
	if err != nil {
		t.Fatalf("StartStudentVerification failed: %v", err)
	}
	env.Users.GetUser(me.ID).Student.ExpiresAt = time.Now().Add(-time.Second)

	if _, err := env.UserService.ConfirmStudentVerification(ctx, me, started.Code); !errors.Is(err, service.ErrVerificationExpired) {
		t.Errorf("Expected ErrVerificationExpired, got %v", err)
	}
}

// TestStudentVerification_HidesCodeOutsideDevelopment verifies codes are only echoed when enabled.
func TestStudentVerification_HidesCodeOutsideDevelopment(t *testing.T) {
	t.Parallel()
	users := NewMockUserRepository()
	users.AddUser(&domain.User{ID: "u1", Name: "riley", Email: "riley@example.com"})
	svc := service.NewUserService(users, false, logger.Nop())
	me := domain.Principal{ID: "u1"}

	res, err := svc.StartStudentVerification(context.Background(), me, "riley@utexas.edu")
	if err != nil {
		t.Fatalf("StartStudentVerification failed: %v", err)
	}
	if res.Code != "" {
		t.Errorf("Expected no code, got %q", res.Code)
	}
	if users.GetUser(me.ID).Student.Code == "" {
		t.Error("Expected the code to be stored")
	}
}
