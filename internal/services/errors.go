package services

import (
	"fmt"
	"log"
)

// Kind classifies a service failure. Transports map kinds to their own status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is returned by every service operation that fails for a reason the caller can act on.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string // per-field validation messages
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so callers can use errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidStatus      = &Error{Kind: KindValidation, Code: "INVALID_STATUS", Message: "Invalid status"}
	ErrInvalidID          = &Error{Kind: KindValidation, Code: "INVALID_ID", Message: "Invalid id"}
	ErrValidation         = &Error{Kind: KindValidation, Code: "VALIDATION_FAILED", Message: "Validation failed"}
	ErrInvalidEditRequest = &Error{Kind: KindValidation, Code: "INVALID_EDIT_REQUEST", Message: "Invalid Edit Request"}
	ErrSelfRequest        = &Error{Kind: KindValidation, Code: "SELF_REQUEST", Message: "You cannot send a connection request to yourself"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}
	ErrUnauthenticated    = &Error{Kind: KindAuth, Code: "UNAUTHENTICATED", Message: "Please login"}
	ErrNotConnected       = &Error{Kind: KindForbidden, Code: "NOT_CONNECTED", Message: "You are not connected with this user. Send a connection request first."}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "Not found"}
	ErrSenderNotFound     = &Error{Kind: KindNotFound, Code: "SENDER_NOT_FOUND", Message: "Sender not found"}
	ErrDuplicateRequest   = &Error{Kind: KindConflict, Code: "DUPLICATE_REQUEST", Message: "Connection request already exists"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Code: "EMAIL_TAKEN", Message: "Email already in use"}
	ErrInternal           = &Error{Kind: KindInternal, Code: "INTERNAL", Message: "Something went wrong"}
)

// with returns a copy of sentinel carrying a specific message.
func with(sentinel *Error, msg string) *Error {
	e := *sentinel
	e.Message = msg
	return &e
}

func validationFailed(fields map[string]string) *Error {
	e := *ErrValidation
	e.Fields = fields
	if len(fields) == 1 {
		for _, msg := range fields {
			e.Message = msg
		}
	}
	return &e
}

// internal logs the storage failure and hides it behind a generic message.
func internal(op string, err error) *Error {
	log.Printf("%s failed: %v", op, err)
	e := *ErrInternal
	e.Err = fmt.Errorf("%s: %w", op, err)
	return &e
}
