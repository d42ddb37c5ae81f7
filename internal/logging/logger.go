package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger: JSON at info level in production, console at debug level elsewhere.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Must is New that panics, for use in main packages.
func Must(environment string) *zap.Logger {
	logger, err := New(environment)
	if err != nil {
		panic(err)
	}
	return logger
}
