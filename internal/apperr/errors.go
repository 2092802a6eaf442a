// Package apperr holds the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindMalformedID
	KindNotFound
	KindConflict
	KindAuth
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMalformedID:
		return "malformed_id"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a classified failure. Two errors match under errors.Is when their
// codes are equal, so wrapped copies carrying details still match the sentinel.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Details, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy of e that carries details.
func (e *Error) With(details ...string) *Error {
	cp := *e
	cp.Details = append([]string(nil), details...)
	return &cp
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf reports the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Internal wraps an unclassified failure.
func Internal(cause error) *Error {
	return ErrInternal.Wrap(cause)
}

var (
	ErrValidation        = New(KindValidation, "validation_failed", "validation failed")
	ErrMissingFields     = New(KindValidation, "missing_fields", "please provide all required fields")
	ErrInvalidQuantity   = New(KindValidation, "invalid_quantity", "quantity must be at least 1")
	ErrInsufficientStock = New(KindValidation, "insufficient_stock", "Insufficient stock")

	ErrMalformedID = New(KindMalformedID, "malformed_id", "Malformed ID parameter")

	ErrNotFound        = New(KindNotFound, "not_found", "not found")
	ErrProductNotFound = New(KindNotFound, "product_not_found", "Product not found")
	ErrCartNotFound    = New(KindNotFound, "cart_not_found", "Cart not found")
	ErrItemNotFound    = New(KindNotFound, "item_not_found", "Item not found in cart")

	ErrConflict   = New(KindConflict, "duplicate", "Duplicate field value")
	ErrEmailTaken = New(KindConflict, "email_taken", "User already exists")

	ErrInvalidCredentials = New(KindAuth, "invalid_credentials", "Invalid email or password")
	ErrTokenMissing       = New(KindAuth, "token_missing", "Not authorized, no token")
	ErrTokenExpired       = New(KindAuth, "token_expired", "Not authorized, token expired")
	ErrTokenInvalid       = New(KindAuth, "token_invalid", "Not authorized, token failed")

	ErrUpstream = New(KindUpstream, "upstream_failed", "upstream request failed")

	ErrInternal = New(KindInternal, "internal", "Server Error")
)
