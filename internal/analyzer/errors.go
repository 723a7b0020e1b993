package analyzer

import "fmt"

// ErrorType categorizes analyzer failures. Callers must not retry
// automatically on either kind.
type ErrorType string

const (
	// ErrorTypeExternalService covers transport failures and non-2xx
	// replies from the chat-completion endpoint.
	ErrorTypeExternalService ErrorType = "external_service"

	// ErrorTypeMalformedResponse means the model reply was not the
	// expected JSON object. No partial recovery or re-prompting happens.
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
)

type Error struct {
	Type    ErrorType
	Status  int // upstream HTTP status, 0 when the request never completed
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Type, e.Status, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newExternalServiceError(status int, message string, cause error) *Error {
	return &Error{Type: ErrorTypeExternalService, Status: status, Message: message, Cause: cause}
}

func newMalformedResponseError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeMalformedResponse, Message: message, Cause: cause}
}
