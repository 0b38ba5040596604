package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrItemNotFound        = errors.New("item not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrNoSession           = errors.New("no active user")
	ErrUnauthorized        = errors.New("invalid credentials")
)
