package user

import "errors"

var (
	ErrStorageWrite = errors.New("failed to persist users")
	ErrInvalidForm  = errors.New("username and email are required")
)
