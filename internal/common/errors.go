package common

import (
	"errors"
	"fmt"
)

var (
	// ErrorNotFound is returned by repositories when no record matches.
	ErrorNotFound = errors.New("not found")

	// ErrorAlreadyExists is returned when a record id is written twice.
	ErrorAlreadyExists = errors.New("already exists")
)

// ValidationError reports a malformed or incomplete ingestion request.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StoreWriteError reports a failed write to the blob store or the record
// store. Its message is the message of the underlying cause so callers see
// the store's own description.
type StoreWriteError struct {
	Store string
	Err   error
}

func NewStoreWriteError(store string, err error) *StoreWriteError {
	return &StoreWriteError{Store: store, Err: err}
}

func (e *StoreWriteError) Error() string {
	if e.Err == nil {
		return e.Store + " write failed"
	}
	return e.Err.Error()
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a required external identifier that is not set.
type ConfigurationError struct {
	Setting string
}

func NewConfigurationError(setting string) *ConfigurationError {
	return &ConfigurationError{Setting: setting}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Setting)
}

// IsClientVisible reports whether err belongs to the taxonomy that is reported
// back to ingestion callers as a structured 400 response.
func IsClientVisible(err error) bool {
	var (
		ve *ValidationError
		se *StoreWriteError
		ce *ConfigurationError
	)
	return errors.As(err, &ve) || errors.As(err, &se) || errors.As(err, &ce)
}
