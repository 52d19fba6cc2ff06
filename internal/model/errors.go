package model

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrSlotTaken       = errors.New("slot is no longer available")
	ErrAuth            = errors.New("authentication failed")
	ErrUnavailable     = errors.New("storage unavailable")
	ErrNotOwner        = errors.New("booking belongs to another user")
	ErrForbidden       = errors.New("operation requires admin role")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoSession       = errors.New("no active session")

	ErrOnboardingRequired = errors.New("profile name is required before booking")
)

// Поля, к которым относится ValidationError
const (
	FieldDateTime             = "date_time"
	FieldDate                 = "date"
	FieldTime                 = "time"
	FieldFullName             = "full_name"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldDayOfWeek            = "day_of_week"
)

// ValidationError локальная ошибка ввода, без обращения к сети
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AuthError ошибка провайдера аутентификации. Сообщение провайдера показывается как есть
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// UnavailableError ошибка чтения из хранилища (сеть, БД)
type UnavailableError struct {
	Op  string
	Err error
}

func NewUnavailableError(op string, err error) *UnavailableError {
	return &UnavailableError{Op: op, Err: err}
}

func (e *UnavailableError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
