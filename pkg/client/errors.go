package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call
type Kind string

const (
	KindRateLimited    Kind = "rate_limited"
	KindInvalidRequest Kind = "invalid_request"
	KindUnauthorized   Kind = "unauthorized"
	KindHTTP           Kind = "http_error"
	KindNetwork        Kind = "network_error"
)

// User-facing messages
const (
	MsgRateLimited    = "Rate limit exceeded. Please try again later."
	MsgInvalidAddress = "Invalid wallet address"
	MsgUnauthorized   = "Unauthorized"
	MsgNetwork        = "Network error"
)

// Sentinels for errors.Is. Every *Error matches exactly one of them.
var (
	ErrRateLimited    = errors.New("rate limited")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrHTTP           = errors.New("http error")
	ErrNetwork        = errors.New("network error")
)

var (
	// ErrSettingsUpdateUnsupported is returned by every settings update: the
	// backend exposes no write path for system settings.
	ErrSettingsUpdateUnsupported = errors.New("Settings update is not supported by the API yet. Please update settings directly on the backend.")

	// ErrMissingToken is returned when a login response carries no token
	ErrMissingToken = errors.New("login response did not include a token")
)

// Error is a classified API failure. Message is safe to show to users.
type Error struct {
	Kind    Kind
	Status  int // 0 when the request never got a response
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of e's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrInvalidRequest:
		return e.Kind == KindInvalidRequest
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

// classify maps a non-2xx status and the server message (may be empty) to an
// Error. 401 only becomes Unauthorized when the caller asks for it.
func classify(status int, serverMsg string, unauthorized bool) *Error {
	switch {
	case status == 429:
		return &Error{Kind: KindRateLimited, Status: status, Message: MsgRateLimited}
	case status == 400:
		return &Error{Kind: KindInvalidRequest, Status: status, Message: orDefault(serverMsg, MsgInvalidAddress)}
	case status == 401 && unauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: orDefault(serverMsg, MsgUnauthorized)}
	default:
		return &Error{Kind: KindHTTP, Status: status, Message: orDefault(serverMsg, fmt.Sprintf("HTTP Error %d", status))}
	}
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
