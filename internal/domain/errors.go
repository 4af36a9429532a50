package domain

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotFound            = errors.New("account not found")
	ErrForbidden           = errors.New("forbidden")
	ErrEmptyUpdate         = errors.New("at least one field must be provided for update")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrSuperadminProtected = errors.New("superadmin cannot be deleted")
	ErrAlreadyPrivileged   = errors.New("account already has admin privileges")
	ErrNotAdmin            = errors.New("account has no admin privileges")
	ErrSelfPrivilegeChange = errors.New("cannot change own privileges")
	ErrUnavailable         = errors.New("service unavailable")
)
