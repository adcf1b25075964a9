package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")

	// ErrSetupProgressUnavailable is raised when an onboarding step is reached
	// without the account's Stripe setup progress attached to the request.
	ErrSetupProgressUnavailable = NewDomainError("SETUP_PROGRESS_UNAVAILABLE", "Stripe setup progress is not available on request")

	// ErrStepAlreadyCompleted is raised when a merchant revisits an onboarding
	// step whose setup flag is already true. Flags are monotonic, so the step
	// can never be re-submitted.
	ErrStepAlreadyCompleted = NewDomainError("STEP_ALREADY_COMPLETED", "This information has already been provided")
)
