package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"flock/internal/domain"
	"flock/internal/repository"
)

const userColumns = `
	id, name, email, password_hash, phone_number, profile_photo_url,
	major, academic_year, vibe, favorite_playlist, gender, is_driver,
	car_make, car_model, car_color, car_plate_state, car_plate_number, car_description,
	student_email, pending_student_email, student_verification_code, student_verification_expires_at,
	is_student_verified, verified_school_name, student_verified_at, created_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone_number, profile_photo_url, is_driver)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		user.ProfilePhotoURL,
		user.IsDriver,
	).Scan(&user.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetByIDs retrieves many users keyed by ID.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[user.ID] = user
	}
	return users, rows.Err()
}

// Update stores the mutable profile fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, phone_number = $2, profile_photo_url = $3,
			major = $4, academic_year = $5, vibe = $6, favorite_playlist = $7, gender = $8,
			is_driver = $9, car_make = $10, car_model = $11, car_color = $12,
			car_plate_state = $13, car_plate_number = $14, car_description = $15,
			student_email = $16, pending_student_email = $17, student_verification_code = $18,
			student_verification_expires_at = $19, is_student_verified = $20,
			verified_school_name = $21, student_verified_at = $22
		WHERE id = $23
	`

	var car domain.CarProfile
	if user.Car != nil {
		car = *user.Car
	}
	sv := user.Student

	result, err := r.q.ExecContext(ctx, query,
		user.Name,
		user.PhoneNumber,
		user.ProfilePhotoURL,
		nullString(user.Major),
		nullString(user.AcademicYear),
		nullString(user.Vibe),
		nullString(user.FavoritePlaylist),
		nullString(user.Gender),
		user.IsDriver,
		nullString(car.Make),
		nullString(car.Model),
		nullString(car.Color),
		nullString(car.PlateState),
		nullString(car.PlateNumber),
		nullString(car.Description),
		nullString(sv.Email),
		nullString(sv.PendingEmail),
		nullString(sv.Code),
		nullTime(sv.ExpiresAt),
		sv.Verified,
		nullString(sv.SchoolName),
		nullTime(sv.VerifiedAt),
		user.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(result)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user                                        domain.User
		major, academicYear, vibe, playlist, gender sql.NullString
		carMake, carModel, carColor                 sql.NullString
		plateState, plateNumber, carDescription     sql.NullString
		studentEmail, pendingEmail, code, school    sql.NullString
		expiresAt, verifiedAt                       sql.NullTime
	)

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.PhoneNumber,
		&user.ProfilePhotoURL,
		&major,
		&academicYear,
		&vibe,
		&playlist,
		&gender,
		&user.IsDriver,
		&carMake,
		&carModel,
		&carColor,
		&plateState,
		&plateNumber,
		&carDescription,
		&studentEmail,
		&pendingEmail,
		&code,
		&expiresAt,
		&user.Student.Verified,
		&school,
		&verifiedAt,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	user.Major = major.String
	user.AcademicYear = academicYear.String
	user.Vibe = vibe.String
	user.FavoritePlaylist = playlist.String
	user.Gender = gender.String

	if carMake.Valid {
		user.Car = &domain.CarProfile{
			Make:        carMake.String,
			Model:       carModel.String,
			Color:       carColor.String,
			PlateState:  plateState.String,
			PlateNumber: plateNumber.String,
			Description: carDescription.String,
		}
	}

	user.Student.Email = studentEmail.String
	user.Student.PendingEmail = pendingEmail.String
	user.Student.Code = code.String
	user.Student.SchoolName = school.String
	if expiresAt.Valid {
		user.Student.ExpiresAt = expiresAt.Time
	}
	if verifiedAt.Valid {
		user.Student.VerifiedAt = verifiedAt.Time
	}

	return &user, nil
}
