package service

import (
	"errors"
)

var (
	// ErrInvalidCredentials covers bad username/password pairs; callers map
	// it to 401 without leaking which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict means a uniqueness rule rejected the write (duplicate
	// username).
	ErrConflict = errors.New("already exists")

	// ErrForbidden means the caller is authenticated but not a participant
	// of the addressed conversation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")
)
