package repository

import "github.com/cockroachdb/errors"

// Sentinel kinds for store errors.
var (
	ErrSealed             = errors.New("store is sealed")
	ErrNotSealed          = errors.New("store is not sealed")
	ErrInvalidInteraction = errors.New("invalid interaction")
)
