package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(apperror.KindConflict, "email already used")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(apperror.KindInvalid, "email is required")
	ErrNameRequired       = apperror.New(apperror.KindInvalid, "name is required")
	ErrPasswordTooShort   = apperror.New(apperror.KindInvalid, "password is too short")
	ErrPermissionDenied   = apperror.New(apperror.KindForbidden, "users can only modify or delete their own profile")
)

// User represents a registered user.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// Filter defines parameters for listing users.
type Filter struct {
	Page     int
	PageSize int
}
