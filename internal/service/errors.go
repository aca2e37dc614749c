package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmailTaken     = errors.New("email already taken")
	ErrBadCredentials = errors.New("bad credentials")
)
