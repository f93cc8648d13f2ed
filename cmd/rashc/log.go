package main

import "go.uber.org/zap"

// zapErr wraps a Go error as the zap.Field every command logs a stage
// failure with, so cmd/rashc's observability traces carry the same error
// value the CLI also prints to the user.
func zapErr(err error) zap.Field {
	return zap.Error(err)
}
