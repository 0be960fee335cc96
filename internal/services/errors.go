package services

import "errors"

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidRegistration   = errors.New("invalid registration data")
	ErrDuplicateUser         = errors.New("user already exists")
	ErrEmptyUpload           = errors.New("uploaded file is empty")
	ErrInvalidFileName       = errors.New("invalid file name")
	ErrUploadConflict        = errors.New("a file with this name already exists")
	ErrFileIO                = errors.New("failed to store profile picture")
	ErrAccountCreationFailed = errors.New("user creation failed")
)
