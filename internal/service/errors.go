package service

import "errors"

// Validation errors.
var (
	// ErrTripFieldsRequired is returned when a trip is missing its required fields.
	ErrTripFieldsRequired = errors.New("origin, destination, departure time, and seats available are required")

	// ErrInvalidDepartureTime is returned when the departure time cannot be parsed.
	ErrInvalidDepartureTime = errors.New("departure time must be an RFC 3339 timestamp")

	// ErrInvalidTripCities is returned for unsupported or identical trip cities.
	ErrInvalidTripCities = errors.New("trip cities must be different supported cities")

	// ErrSeatsBelowOne is returned when a new trip offers no seats.
	ErrSeatsBelowOne = errors.New("seats available must be at least 1")

	// ErrSeatsNegative is returned when an edit sets a negative seat count.
	ErrSeatsNegative = errors.New("seats available cannot be negative")

	// ErrTripAlreadyCancelled is returned when cancelling a cancelled trip.
	ErrTripAlreadyCancelled = errors.New("this trip is already cancelled")

	// ErrTripAlreadyCompleted is returned when completing a completed trip.
	ErrTripAlreadyCompleted = errors.New("this trip is already completed")

	// ErrCompletedTripNotCancellable is returned when cancelling a completed trip.
	ErrCompletedTripNotCancellable = errors.New("completed trips cannot be cancelled")

	// ErrCancelledTripNotCompletable is returned when completing a cancelled trip.
	ErrCancelledTripNotCompletable = errors.New("cancelled trips cannot be completed")

	// ErrTripNotDeparted is returned when completing a trip before its departure time.
	ErrTripNotDeparted = errors.New("trips can only be completed after departure time")

	// ErrRequestNoteRequired is returned when a ride request note is too short.
	ErrRequestNoteRequired = errors.New("a short request note is required")

	// ErrOwnTripRequest is returned when a driver requests a seat on their own trip.
	ErrOwnTripRequest = errors.New("drivers cannot request their own trips")

	// ErrTripCancelled is returned when requesting a seat on a cancelled trip.
	ErrTripCancelled = errors.New("this trip has been cancelled")

	// ErrTripFull is returned when no seat is left.
	ErrTripFull = errors.New("this trip is already full")

	// ErrCancelledTripAccept is returned when accepting a request on a cancelled trip.
	ErrCancelledTripAccept = errors.New("cancelled trips cannot accept requests")

	// ErrRequestNotPending is returned when accepting a request that is not pending.
	ErrRequestNotPending = errors.New("only pending requests can be accepted")

	// ErrMessageTextRequired is returned for empty messages.
	ErrMessageTextRequired = errors.New("message text is required")

	// ErrReceiverRequired is returned when a driver sends a message without a recipient.
	ErrReceiverRequired = errors.New("drivers must choose an accepted rider to message")

	// ErrReviewFieldsRequired is returned when the reviewee or an integer rating is missing.
	ErrReviewFieldsRequired = errors.New("reviewee and integer rating are required")

	// ErrRatingOutOfRange is returned for ratings outside 1 to 5.
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

	// ErrSelfReview is returned when a user reviews themselves.
	ErrSelfReview = errors.New("you cannot review yourself")

	// ErrInvalidUserID is returned when a user id path parameter is malformed.
	ErrInvalidUserID = errors.New("valid user id is required")

	// ErrRegistrationFieldsRequired is returned when registration input is incomplete.
	ErrRegistrationFieldsRequired = errors.New("name, email, password, phone number, and profile photo URL are required")

	// ErrLoginFieldsRequired is returned when email or password is missing.
	ErrLoginFieldsRequired = errors.New("email and password are required")

	// ErrProfileFieldsRequired is returned when a profile update lacks name, phone or photo.
	ErrProfileFieldsRequired = errors.New("name, phone number, and profile photo are required")

	// ErrCarFieldsRequired is returned when a driver profile lacks a required car field.
	ErrCarFieldsRequired = errors.New("car make, model, color, plate state, and plate number are required")

	// ErrDriverGenderRequired is returned when a driver has no valid gender.
	ErrDriverGenderRequired = errors.New("drivers must set gender to male or female")

	// ErrStudentEmailRequired is returned when no student email is provided.
	ErrStudentEmailRequired = errors.New("a .edu email is required")

	// ErrInvalidStudentEmail is returned for non-.edu addresses.
	ErrInvalidStudentEmail = errors.New("use a valid .edu email to verify your student status")

	// ErrVerificationCodeRequired is returned when confirming without a code.
	ErrVerificationCodeRequired = errors.New("enter the verification code")

	// ErrNoPendingVerification is returned when confirming before requesting a code.
	ErrNoPendingVerification = errors.New("request a verification code before confirming")

	// ErrWrongVerificationCode is returned for a mismatched code.
	ErrWrongVerificationCode = errors.New("that verification code is incorrect")

	// ErrVerificationExpired is returned once the code window has passed.
	ErrVerificationExpired = errors.New("that verification code expired, request a new one")

	// ErrPhotoRequired is returned when an upload has no file.
	ErrPhotoRequired = errors.New("a profile photo file is required")

	// ErrPhotoTooLarge is returned for files over the upload limit.
	ErrPhotoTooLarge = errors.New("profile photos must be 5 MB or smaller")

	// ErrPhotoNotImage is returned for non-image uploads.
	ErrPhotoNotImage = errors.New("only image uploads are allowed")
)

// Authentication errors.
var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Permission errors.
var (
	// ErrDriverRegistrationRequired is returned when a non-driver posts a trip.
	ErrDriverRegistrationRequired = errors.New("you must complete driver registration before posting a trip")

	// ErrNotTripOwner is returned when someone other than the driver manages a trip.
	ErrNotTripOwner = errors.New("only the driver who posted this trip can change it")

	// ErrNotRequestDriver is returned when someone other than the trip driver answers a request.
	ErrNotRequestDriver = errors.New("only the driver can respond to this request")

	// ErrNotRequestRider is returned when someone other than the rider withdraws a request.
	ErrNotRequestRider = errors.New("only the rider can withdraw this request")

	// ErrMessagingLocked is returned to users without an accepted request on the trip.
	ErrMessagingLocked = errors.New("messages unlock after a request is accepted")

	// ErrRecipientNotAccepted is returned when a driver addresses a rider who is not accepted.
	ErrRecipientNotAccepted = errors.New("drivers may only message accepted riders")

	// ErrReviewLocked is returned before the trip departure time.
	ErrReviewLocked = errors.New("reviews unlock after the trip departure time has passed")

	// ErrDriverReviewTarget is returned when a driver reviews someone they did not accept.
	ErrDriverReviewTarget = errors.New("drivers may only review riders they accepted for this trip")

	// ErrReviewerNotAccepted is returned when a rider without an accepted request reviews.
	ErrReviewerNotAccepted = errors.New("only accepted riders can review the driver")

	// ErrRiderReviewTarget is returned when an accepted rider reviews someone other than the driver.
	ErrRiderReviewTarget = errors.New("accepted riders may only review the driver for this trip")
)

// Not found errors.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTripNotFound         = errors.New("trip not found")
	ErrRequestNotFound      = errors.New("ride request not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Conflict errors.
var (
	// ErrEmailInUse is returned when registering an existing email.
	ErrEmailInUse = errors.New("email is already in use")

	// ErrDuplicateRequest is returned when a rider requests the same trip twice.
	ErrDuplicateRequest = errors.New("you have already requested a seat on this trip")

	// ErrDuplicateReview is returned when a reviewer reviews the same person for a trip twice.
	ErrDuplicateReview = errors.New("you have already reviewed this person for this trip")
)
