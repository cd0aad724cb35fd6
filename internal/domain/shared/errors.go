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
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrOffline           = NewDomainError("OFFLINE", "Operation requires network connectivity")
	ErrSyncInProgress    = NewDomainError("SYNC_IN_PROGRESS", "A sync run is already active")
	ErrDrainInProgress   = NewDomainError("DRAIN_IN_PROGRESS", "A queue drain is already active")
	ErrNoPreviousVersion = NewDomainError("NO_PREVIOUS_VERSION", "No previous version to restore")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
