package game

import "errors"

// Sentinel errors for game validation.

// ErrMissingField indicates a required game field was empty or absent.
var ErrMissingField = errors.New("game is missing a required field")

// ErrActivityOutOfRange indicates communityActivity was outside 0..10.
var ErrActivityOutOfRange = errors.New("community activity out of range")

// ErrInvalidStoreURL indicates a store link was not an absolute http(s) URL.
var ErrInvalidStoreURL = errors.New("invalid store URL")
