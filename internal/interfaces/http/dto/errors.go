package dto

import "net/http"

// Error codes surfaced by the portal API. Domain codes pass through
// unchanged; upstream failures are folded into the two UPSTREAM codes.
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"

	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding validation fails
	ErrCodeValidation = "VALIDATION_FAILED"

	// ErrCodeUnauthorized is used when the session is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks access to the account
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeSessionExpired is used when the session token has expired
	ErrCodeSessionExpired = "SESSION_EXPIRED"

	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeSetupProgressUnavailable is used when an onboarding step is
	// reached without setup progress attached to the request
	ErrCodeSetupProgressUnavailable = "SETUP_PROGRESS_UNAVAILABLE"
	// ErrCodeStepAlreadyCompleted is used when a completed step is revisited
	ErrCodeStepAlreadyCompleted = "STEP_ALREADY_COMPLETED"

	// ErrCodeUpstreamUnreachable is used when a backend service cannot be
	// reached at the transport level
	ErrCodeUpstreamUnreachable = "UPSTREAM_UNREACHABLE"
	// ErrCodeUpstreamStatus is used when a backend service answers with a
	// status outside the accepted set
	ErrCodeUpstreamStatus = "UPSTREAM_STATUS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeSessionExpired: http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeSetupProgressUnavailable: http.StatusInternalServerError,
	ErrCodeStepAlreadyCompleted:     http.StatusConflict,

	ErrCodeUpstreamUnreachable: http.StatusBadGateway,
	ErrCodeUpstreamStatus:      http.StatusBadGateway,

	// user-correctable input problems from the application services
	"INVALID_INPUT":                     http.StatusBadRequest,
	"REFUND_AMOUNT_NOT_VALID":           http.StatusBadRequest,
	"REFUND_AMOUNT_ABOVE_BALANCE":       http.StatusBadRequest,
	"CALLBACK_URL_NOT_VALID":            http.StatusBadRequest,
	"SUBSCRIPTIONS_EMPTY":               http.StatusBadRequest,
	"SUBSCRIPTION_UNKNOWN":              http.StatusBadRequest,
	"STATUS_NOT_VALID":                  http.StatusBadRequest,
	"GATEWAY_MERCHANT_ID_NOT_VALID":     http.StatusBadRequest,
	"INTEGRATION_VERSION_3DS_NOT_VALID": http.StatusBadRequest,
	"CREDENTIALS_NOT_VALID":             http.StatusBadRequest,
	"CREDENTIALS_NOT_SUPPORTED":         http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes not in the table
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
