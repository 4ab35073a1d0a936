package exchange

import (
	"errors"
	"fmt"
)

// ConfigNotFoundError indicates that the configuration record could not be
// located, either because the locator was blank or the store has no such
// record.
type ConfigNotFoundError struct {
	Directory string
	Name      string
	Err       error
}

func (e *ConfigNotFoundError) Error() string {
	msg := fmt.Sprintf("configuration item %q not found in %q", e.Name, e.Directory)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigNotFoundError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates that a required record field was blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is null or empty, check the configuration item", e.Field)
}

// UnsupportedVersionError indicates a server version tag outside the
// supported set.
type UnsupportedVersionError struct {
	Tag string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("exchange version %q does not match any known version", e.Tag)
}

// InvalidConnectionModeError indicates a connection mode tag that is not
// one of the four known modes.
type InvalidConnectionModeError struct {
	Tag string
}

func (e *InvalidConnectionModeError) Error() string {
	return fmt.Sprintf("invalid connection type %q", e.Tag)
}

// InvalidArgumentError indicates a blank argument on the explicit
// construction path.
type InvalidArgumentError struct {
	Argument string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("argument %s must not be empty", e.Argument)
}

// MalformedRecordError is returned in strict mode when a record carries
// content past its last expected field.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed configuration item at line %d: %s", e.Line, e.Reason)
}

// IsConfigNotFound reports whether err (or any error in its chain) is a
// ConfigNotFoundError.
func IsConfigNotFound(err error) bool {
	var target *ConfigNotFoundError
	return errors.As(err, &target)
}

// IsMissingField reports whether err (or any error in its chain) is a
// MissingFieldError.
func IsMissingField(err error) bool {
	var target *MissingFieldError
	return errors.As(err, &target)
}

// IsUnsupportedVersion reports whether err (or any error in its chain) is
// an UnsupportedVersionError.
func IsUnsupportedVersion(err error) bool {
	var target *UnsupportedVersionError
	return errors.As(err, &target)
}

// IsInvalidConnectionMode reports whether err (or any error in its chain)
// is an InvalidConnectionModeError.
func IsInvalidConnectionMode(err error) bool {
	var target *InvalidConnectionModeError
	return errors.As(err, &target)
}

// IsInvalidArgument reports whether err (or any error in its chain) is an
// InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}
