// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the client can return.
type ErrorKind int

const (
	// KindInvalidState means an operation ran before required setup.
	KindInvalidState ErrorKind = iota + 1
	// KindInvalidServerResponse means a malformed payload or unexpected HTTP status.
	KindInvalidServerResponse
	// KindServerError means the server answered with an error envelope.
	KindServerError
	// KindUnauthorizedAccess means HTTP 403.
	KindUnauthorizedAccess
	// KindInvalidParameter means a builder terminal was missing mandatory input.
	KindInvalidParameter
	// KindTransport means the request never produced an HTTP response.
	KindTransport
)

// Sentinels for errors.Is.
var (
	ErrInvalidState          = errors.New("geocore: invalid state")
	ErrInvalidServerResponse = errors.New("geocore: invalid server response")
	ErrServerError           = errors.New("geocore: server error")
	ErrUnauthorizedAccess    = errors.New("geocore: unauthorized access")
	ErrInvalidParameter      = errors.New("geocore: invalid parameter")
	ErrTransport             = errors.New("geocore: transport error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidState:
		return ErrInvalidState
	case KindInvalidServerResponse:
		return ErrInvalidServerResponse
	case KindServerError:
		return ErrServerError
	case KindUnauthorizedAccess:
		return ErrUnauthorizedAccess
	case KindInvalidParameter:
		return ErrInvalidParameter
	case KindTransport:
		return ErrTransport
	default:
		return nil
	}
}

// String returns the snake_case name used in logs and metrics.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidServerResponse:
		return "invalid_server_response"
	case KindServerError:
		return "server_error"
	case KindUnauthorizedAccess:
		return "unauthorized_access"
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by the client.
//
//	var gerr *geocore.Error
//	if errors.As(err, &gerr) && gerr.Kind == geocore.KindServerError {
//	    log.Println(gerr.Code) // e.g. "Auth.0001"
//	}
type Error struct {
	Kind ErrorKind

	// Code is the machine-readable server error code, e.g. "General.0011".
	Code string

	Message string

	// StatusCode is the HTTP status when one was received.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.StatusCode != 0 && e.Kind != KindUnauthorizedAccess {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func invalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func invalidParameter(message string) *Error {
	return &Error{Kind: KindInvalidParameter, Message: message}
}

func invalidResponse(statusCode int, message string, cause error) *Error {
	return &Error{Kind: KindInvalidServerResponse, StatusCode: statusCode, Message: message, Err: cause}
}

func serverError(code, message string) *Error {
	return &Error{Kind: KindServerError, Code: code, Message: message, StatusCode: 200}
}

func unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorizedAccess, StatusCode: 403, Message: message}
}

func transportError(cause error) *Error {
	return &Error{Kind: KindTransport, Err: cause}
}

// kindOf returns the kind of err, or 0 for foreign errors.
func kindOf(err error) ErrorKind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}
