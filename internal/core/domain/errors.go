package domain

import "errors"

var (
	ErrRecordingNotFound  = errors.New("recording not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCameraNotConnected = errors.New("camera not connected")
)
