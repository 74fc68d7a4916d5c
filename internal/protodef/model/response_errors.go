package model

type ResponseError struct {
	// Code app error code.
	Code int `json:"code"`
	// RequestID request ID.
	RequestID string `json:"requestID"`
	// Message
	Message string `json:"message"`
}

const (
	ResponseErrorBadRequest       = 400000
	ResponseErrorSessionEnded     = 400001
	ResponseErrorNotLoggedIn      = 401001
	ResponseErrorBadToken         = 401003
	ResponseErrorValidation       = 401005
	ResponseErrorNotSessionOwner  = 403001
	ResponseErrorNoSuchUser       = 404001
	ResponseErrorNoSuchSession    = 404002
	ResponseErrorNotFound         = 404000
	ResponseErrorInternal         = 500000
	ResponseErrorExternalService  = 502001
	ResponseErrorStorageNotConfig = 501001
)

// NewResponseErrorBadRequest invalid request arguments.
func NewResponseErrorBadRequest() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadRequest,
		Message: "bad request",
	}
}

// NewResponseErrorNotLoggedIn the caller carries no usable credential.
func NewResponseErrorNotLoggedIn() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotLoggedIn,
		Message: "not logged in",
	}
}

// NewResponseErrorBadToken the bearer token failed verification.
func NewResponseErrorBadToken() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadToken,
		Message: "bad token",
	}
}

func NewResponseErrorValidation(err error) *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorValidation,
		Message: err.Error(),
	}
}

// NewResponseErrorNotSessionOwner session belongs to another account.
func NewResponseErrorNotSessionOwner() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotSessionOwner,
		Message: "session belongs to another user",
	}
}

// NewResponseErrorNoSuchUser no such user.
func NewResponseErrorNoSuchUser() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchUser,
		Message: "no such user",
	}
}

// NewResponseErrorNoSuchSession no such interview session.
func NewResponseErrorNoSuchSession() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchSession,
		Message: "no such session",
	}
}

// NewResponseErrorSessionEnded the interview session is already over.
func NewResponseErrorSessionEnded() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorSessionEnded,
		Message: "session already ended",
	}
}

func NewResponseErrorNotFound() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotFound,
		Message: "not found",
	}
}

// NewResponseErrorInternal other internal server errors.
func NewResponseErrorInternal() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInternal,
		Message: "internal server error",
	}
}

// NewResponseErrorExternalService calling an upstream provider failed.
func NewResponseErrorExternalService() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorExternalService,
		Message: "calling external service failed",
	}
}

// NewResponseErrorStorageNotConfig transcript storage is not configured.
func NewResponseErrorStorageNotConfig() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorStorageNotConfig,
		Message: "transcript storage not configured",
	}
}

func NewResponseError(code int, message string) *ResponseError {
	return &ResponseError{
		Code:    code,
		Message: message,
	}
}
