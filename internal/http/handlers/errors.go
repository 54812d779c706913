// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (capacity_exceeded, empty_cart, items_unavailable,
//     invalid_payment_id) carry the checkout error taxonomy that status codes
//     alone cannot convey.
//   - All error responses must include both an HTTP status and one of these codes.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCapacityExceeded = "capacity_exceeded"
	ErrCodeEmptyCart        = "empty_cart"
	ErrCodeItemsUnavailable = "items_unavailable"
	ErrCodeInvalidPaymentID = "invalid_payment_id"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
