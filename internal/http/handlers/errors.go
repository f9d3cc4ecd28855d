// Error codes returned in ErrorResponse.Code.
//
// Codes are lowercase snake_case and stable: clients branch on them, not on
// messages. Generic codes mirror HTTP status semantics; the journal codes
// name the operation that failed.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation_failed",
//	  "message": "destination must not be blank"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"
	ErrCodeUnavailable  = "unavailable"

	// Domain-specific:
	ErrCodeValidation       = "validation_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeUpdateFailed     = "update_failed"
	ErrCodeDeleteFailed     = "delete_failed"
	ErrCodeGetFailed        = "get_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeArchiveFailed    = "archive_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
