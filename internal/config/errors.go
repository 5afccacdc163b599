package config

import "errors"

var (
	ErrMissingSecret   = errors.New("APP_SECRET_KEY must be set")
	ErrEmptyPort       = errors.New("PORT must not be empty")
	ErrEmptyMongoURI   = errors.New("MONGO_URI must not be empty")
	ErrInvalidDuration = errors.New("timeouts and expiries must be positive")
)
