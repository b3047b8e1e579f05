package auth

import "errors"

var (
	ErrMissingField       = errors.New("please provide all fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrChangeOwnRole      = errors.New("admins cannot change their own role")
	ErrDeleteSelf         = errors.New("admins cannot delete their own account")
)
