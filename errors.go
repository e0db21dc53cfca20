package variants

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyRequired indicates a definition without a key.
	ErrKeyRequired = errors.New("variants: key must be provided")
	// ErrInvalidKey indicates a key that cannot be used in an attribute name.
	ErrInvalidKey = errors.New("variants: key must match [A-Za-z0-9_-]+")
	// ErrNoOptions indicates an empty option set.
	ErrNoOptions = errors.New("variants: at least one option is required")
	// ErrEmptyOption indicates an empty option label.
	ErrEmptyOption = errors.New("variants: option labels must not be empty")
	// ErrDuplicateOption indicates the same label was declared twice.
	ErrDuplicateOption = errors.New("variants: option labels must be unique")
	// ErrDefaultNotInOptions indicates the default label is not a declared option.
	ErrDefaultNotInOptions = errors.New("variants: default must be one of the options")
	// ErrInvalidSource indicates a malformed read source descriptor.
	ErrInvalidSource = errors.New("variants: invalid read source")
	// ErrMediaLabelNotInOptions indicates a media query label outside the options.
	ErrMediaLabelNotInOptions = errors.New("variants: media query labels must be options")
	// ErrDuplicateKey indicates a registry already holds a definition for the key.
	ErrDuplicateKey = errors.New("variants: key already registered")
	// ErrIDCollision indicates two definitions hash to the same identifier.
	ErrIDCollision = errors.New("variants: identifier collision")
)

// ConfigError captures which definition and field failed validation.
type ConfigError struct {
	Key   string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	key := e.Key
	if key == "" {
		key = "<empty>"
	}
	return fmt.Sprintf("variants: definition key=%s field=%s: %v", key, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func configError(key, field string, err error) error {
	if err == nil {
		return nil
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		if cfgErr.Key == "" {
			cfgErr.Key = key
		}
		return cfgErr
	}
	return &ConfigError{Key: key, Field: field, Err: err}
}
