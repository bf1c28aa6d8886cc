package storage

import "errors"

var (
	ErrInvalidKey = errors.New("invalid blob key")
	ErrEmptyBlob  = errors.New("blob is empty")
)
