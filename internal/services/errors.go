package services

import "errors"

// Every service operation fails with one of these kinds (possibly wrapped)
// or succeeds; raw store errors never cross the service boundary for
// constraint violations.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrForbidden          = errors.New("operation not permitted")
	ErrEmptyBody          = errors.New("comment body is empty")
	ErrConflict           = errors.New("conflicting concurrent write")
	ErrNotFound           = errors.New("record not found")
)
