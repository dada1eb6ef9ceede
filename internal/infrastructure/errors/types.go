package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status represents a graphics subsystem status code
type Status int

const (
	Ok Status = iota
	GenericError
	InvalidParameter
	OutOfMemory
	ObjectBusy
	InsufficientBuffer
	NotImplemented
	Win32Error
	WrongState
	Aborted
	ValueOverflow
	AccessDenied
	UnknownImageFormat
)

// String returns a string representation of the status code
func (s Status) String() string {
	switch s {
	case Ok:
		return "OK"
	case GenericError:
		return "GENERIC_ERROR"
	case InvalidParameter:
		return "INVALID_PARAMETER"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case ObjectBusy:
		return "OBJECT_BUSY"
	case InsufficientBuffer:
		return "INSUFFICIENT_BUFFER"
	case NotImplemented:
		return "NOT_IMPLEMENTED"
	case Win32Error:
		return "WIN32_ERROR"
	case WrongState:
		return "WRONG_STATE"
	case Aborted:
		return "ABORTED"
	case ValueOverflow:
		return "VALUE_OVERFLOW"
	case AccessDenied:
		return "ACCESS_DENIED"
	case UnknownImageFormat:
		return "UNKNOWN_IMAGE_FORMAT"
	default:
		return "UNKNOWN"
	}
}

// Message returns the human readable description of the status
func (s Status) Message() string {
	switch s {
	case Ok:
		return "no error occurred"
	case GenericError:
		return "a generic error occurred"
	case InvalidParameter:
		return "an invalid parameter was used"
	case OutOfMemory:
		return "out of memory"
	case ObjectBusy:
		return "object was currently busy"
	case InsufficientBuffer:
		return "a buffer was too small"
	case NotImplemented:
		return "a method has not been implemented"
	case Win32Error:
		return "a Win32 error occurred"
	case WrongState:
		return "an object was in an invalid state"
	case Aborted:
		return "a method was prematurely terminated"
	case ValueOverflow:
		return "an arithmetic operation produced a numeric overflow"
	case AccessDenied:
		return "access was denied"
	case UnknownImageFormat:
		return "an image was in an unknown format"
	default:
		return "an unknown error occurred"
	}
}

// GraphicsError is a failure reported by the bitmap and icon layers
type GraphicsError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Status    Status            // status classification
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *GraphicsError) Error() string {
	if e == nil {
		return "graphics error"
	}

	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Status != Ok {
		parts = append(parts, fmt.Sprintf("status=%s", e.Status.String()))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	contextStr := ""
	if len(parts) > 0 {
		contextStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + contextStr
	}
	return e.Status.Message() + contextStr
}

func (e *GraphicsError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements error matching for errors.Is
func (e *GraphicsError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*GraphicsError); ok {
		return e.Status == t.Status
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// GetCode returns the status as a string (for logging interface compatibility)
func (e *GraphicsError) GetCode() string {
	if e == nil {
		return GenericError.String()
	}
	return e.Status.String()
}

// GetContext returns the error context (for logging interface compatibility)
func (e *GraphicsError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (for logging interface compatibility)
func (e *GraphicsError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information to the error by mutating the receiver.
// Not safe once the error has been handed to another goroutine.
func (e *GraphicsError) WithContext(key, value string) *GraphicsError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// New creates a new graphics error with the given status
func New(op string, status Status) *GraphicsError {
	return Wrap(op, nil, status)
}

// Newf creates a new graphics error with a formatted message
func Newf(op string, status Status, format string, args ...interface{}) *GraphicsError {
	return Wrap(op, fmt.Errorf(format, args...), status)
}

// Wrap creates a new graphics error wrapping err
func Wrap(op string, err error, status Status) *GraphicsError {
	return &GraphicsError{
		Op:        op,
		Err:       err,
		Status:    status,
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// WrapWithContext creates a new graphics error with additional context
func WrapWithContext(op string, err error, status Status, context map[string]string) *GraphicsError {
	gErr := Wrap(op, err, status)
	if context != nil {
		gErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			gErr.Context[k] = v
		}
	}
	return gErr
}

// StatusOf returns the status carried by err. A nil error is Ok and an error
// that is not a GraphicsError is a GenericError.
func StatusOf(err error) Status {
	if err == nil {
		return Ok
	}
	var gErr *GraphicsError
	if errors.As(err, &gErr) {
		return gErr.Status
	}
	return GenericError
}

// IsInvalidParameter checks if the error is an "invalid parameter" error
func IsInvalidParameter(err error) bool {
	return StatusOf(err) == InvalidParameter
}

// IsOutOfMemory checks if the error is an "out of memory" error
func IsOutOfMemory(err error) bool {
	return StatusOf(err) == OutOfMemory
}

// IsObjectBusy checks if the error is an "object busy" error
func IsObjectBusy(err error) bool {
	return StatusOf(err) == ObjectBusy
}

// IsWin32Error checks if the error came from a failed OS call
func IsWin32Error(err error) bool {
	return StatusOf(err) == Win32Error
}

// IsWrongState checks if the error is a "wrong state" error
func IsWrongState(err error) bool {
	return StatusOf(err) == WrongState
}

// IsAborted checks if the error is an "aborted" error
func IsAborted(err error) bool {
	return StatusOf(err) == Aborted
}
