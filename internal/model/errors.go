package model

import (
	"errors"
)

var (
	// ErrInvalidArchive covers both structural corruption and path
	// traversal attempts. Callers do not need to distinguish the two,
	// the upload is rejected either way.
	ErrInvalidArchive = errors.New("invalid archive")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)
