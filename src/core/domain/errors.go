package domain

import (
	"errors"
	"fmt"
)

// Error kinds synthesized by the client core. Driver errors are never
// translated into these; they reach the caller unmodified.

var (
	// ErrConfiguration is returned when required connection or pool settings are missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrPoolExhausted is returned when no connection became available within the pool bounds or timeout.
	ErrPoolExhausted = errors.New("pool exhausted")

	// ErrPoolClosed is returned by a pool that has been shut down.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrConnectionCreate is returned when the driver failed to establish a new connection.
	ErrConnectionCreate = errors.New("connection create failed")

	// ErrConnectionState is returned when a connection is released or destroyed
	// while the pool does not consider it checked out.
	ErrConnectionState = errors.New("connection not checked out")

	// ErrBadConnection marks a driver error after which the session cannot be reused.
	// Driver adapters wrap it around such errors so the pool destroys the connection.
	ErrBadConnection = errors.New("bad connection")

	// ErrTransactionState is returned for operations on a finalized transaction.
	ErrTransactionState = errors.New("transaction closed")

	// ErrTransactionRolledBack is the outcome of a rolled back transaction.
	ErrTransactionRolledBack = errors.New("transaction rolled back")

	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when trying to register a resource that already exists.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// Error wraps a base error kind with context and an optional cause.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	// Base is the error kind (e.g., ErrPoolExhausted)
	Base error

	// Message provides human-readable context
	Message string

	// Field names the offending setting for configuration/validation errors
	Field string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Base.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field: %s)", msg, e.Field)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the kind and the cause for errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Base}
	}
	return []error{e.Base, e.Cause}
}

// NewConfigurationError reports a missing or invalid setting.
func NewConfigurationError(field, message string) *Error {
	return &Error{
		Base:    ErrConfiguration,
		Message: message,
		Field:   field,
	}
}

// NewPoolExhaustedError reports an acquisition that gave up waiting.
func NewPoolExhaustedError(pool string, cause error) *Error {
	return &Error{
		Base:    ErrPoolExhausted,
		Message: fmt.Sprintf("no connection available in %s", pool),
		Cause:   cause,
	}
}

// NewConnectionCreateError wraps a driver connect failure.
func NewConnectionCreateError(pool string, cause error) *Error {
	return &Error{
		Base:    ErrConnectionCreate,
		Message: pool,
		Cause:   cause,
	}
}

// NewConnectionStateError reports a release/destroy of a connection the pool does not hold as checked out.
func NewConnectionStateError(op, cid string) *Error {
	return &Error{
		Base:    ErrConnectionState,
		Message: fmt.Sprintf("%s %s", op, cid),
	}
}

// NewTransactionStateError reports an operation attempted on a finalized transaction.
func NewTransactionStateError(op string) *Error {
	return &Error{
		Base:    ErrTransactionState,
		Message: op,
	}
}

// NewRollbackError is the outcome of Rollback. cause is the error of the
// rollback statement itself and may be nil.
func NewRollbackError(cause error) *Error {
	return &Error{
		Base:  ErrTransactionRolledBack,
		Cause: cause,
	}
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(resource string) *Error {
	return &Error{
		Base:    ErrNotFound,
		Message: resource,
	}
}

// NewAlreadyExistsError creates an already exists error with context.
func NewAlreadyExistsError(resource string) *Error {
	return &Error{
		Base:    ErrAlreadyExists,
		Message: resource,
	}
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *Error {
	return &Error{
		Base:    ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

// MarkBadConnection wraps err so that IsBadConnection reports true.
// A nil err stays nil.
func MarkBadConnection(err error) error {
	if err == nil || errors.Is(err, ErrBadConnection) {
		return err
	}
	return &Error{Base: ErrBadConnection, Cause: err}
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsPoolExhausted checks if an error is a pool exhaustion error.
func IsPoolExhausted(err error) bool {
	return errors.Is(err, ErrPoolExhausted)
}

// IsPoolClosed checks if an error comes from a closed pool.
func IsPoolClosed(err error) bool {
	return errors.Is(err, ErrPoolClosed)
}

// IsConnectionCreate checks if an error is a connection create failure.
func IsConnectionCreate(err error) bool {
	return errors.Is(err, ErrConnectionCreate)
}

// IsBadConnection checks if a driver error left the connection unusable.
func IsBadConnection(err error) bool {
	return errors.Is(err, ErrBadConnection)
}

// IsTransactionState checks if an error is a transaction state error.
func IsTransactionState(err error) bool {
	return errors.Is(err, ErrTransactionState)
}

// IsRolledBack checks if an error is a rollback outcome.
func IsRolledBack(err error) bool {
	return errors.Is(err, ErrTransactionRolledBack)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict checks if an error is an already exists error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
