package repository

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateToken  = errors.New("lookup token already in use")
	ErrDuplicateUser   = errors.New("user already exists")
	ErrStatusChanged   = errors.New("order status changed concurrently")
)
