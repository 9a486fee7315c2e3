package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies lifecycle failures so the API boundary can map them to responses
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidInput
	KindConflict
	KindInvalidState
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidInput:
		return "invalid input"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid state"
	}
	return "unknown"
}

// ServiceError is returned for every expected failure of a service operation
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func notFound(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindInvalidInput, Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

func conflict(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func invalidState(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindInvalidState, Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}

// isUniqueViolation detects duplicate key errors (works with both PostgreSQL and SQLite)
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
