package flyweight

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidKey is matched by every *InvalidKeyError.
	ErrInvalidKey = errors.New("flyweight: invalid key")

	// ErrPayloadConstruction is matched by every *PayloadConstructionError.
	ErrPayloadConstruction = errors.New("flyweight: payload construction failed")

	// ErrNilFactory is returned by New when no factory is supplied.
	ErrNilFactory = errors.New("flyweight: nil factory")
)

// InvalidKeyError is returned when a key has an empty category or variant.
type InvalidKeyError struct {
	Key    Key
	Reason string
}

// Error implements the error interface.
func (e *InvalidKeyError) Error() string {
	// Example: flyweight: invalid key "oak/": variant must not be empty
	return "flyweight: invalid key " + strconv.Quote(e.Key.String()) + ": " + e.Reason
}

// Is reports whether target is ErrInvalidKey.
func (e *InvalidKeyError) Is(target error) bool { return target == ErrInvalidKey }

// PayloadConstructionError wraps a failure returned by a Factory. The cache is
// left unmodified for Key, so a later request retries the construction.
type PayloadConstructionError struct {
	Key Key
	Err error
}

// Error implements the error interface.
func (e *PayloadConstructionError) Error() string {
	return "flyweight: constructing payload " + strconv.Quote(e.Key.String()) + ": " + e.Err.Error()
}

// Unwrap returns the underlying factory error.
func (e *PayloadConstructionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPayloadConstruction.
func (e *PayloadConstructionError) Is(target error) bool { return target == ErrPayloadConstruction }
