package domain

import "errors"

var (
	// ErrIncompleteCarProfile is returned when only some required car fields are provided.
	ErrIncompleteCarProfile = errors.New("to register as a driver, fill in all required car fields")

	// ErrInvalidGender is returned for gender values other than male or female.
	ErrInvalidGender = errors.New("gender must be either male or female")
)
