package models

import "errors"

var (
	ErrNotFound  = errors.New("image not found")
	ErrForbidden = errors.New("forbidden path")
	ErrBadPath   = errors.New("malformed path")
	ErrBadConfig = errors.New("invalid configuration")
)
