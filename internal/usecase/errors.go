package usecase

// Error codes surfaced to the transport layer.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeDuplicateLead   = "DUPLICATE_LEAD"
	CodeValidationError = "VALIDATION_ERROR"
	CodeStoreError      = "STORE_ERROR"
	CodeLLMError        = "LLM_ERROR"
)

// DomainError is an expected, recoverable business failure. Handlers map the
// code to an HTTP status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is infrastructure falling over (database, broker). Always a
// 5xx upstream.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
