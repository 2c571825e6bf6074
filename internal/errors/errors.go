package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeConflict    ErrorType = "conflict"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeExternal    ErrorType = "external_api"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypePermission  ErrorType = "permission"
)

// Messages shown to end users. Remote failures are always generic and retryable.
const (
	MsgAnalysisFailed = "Não foi possível analisar o alimento. Tente novamente."
	MsgRecipeFailed   = "Erro ao gerar receita."
	MsgChatFailed     = "Tive um problema ao conectar com o servidor."
	MsgInternal       = "Algo deu errado. Tente novamente."
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on type and code so sentinel AppErrors work with errors.Is.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip + 1)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(1),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(1),
		Context:  make(map[string]interface{}),
	}
}

// Is and As re-export the standard helpers so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// TypeOf returns the AppError type of err, or internal for foreign errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// UserMessage returns text safe to show to the end user.
func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return MsgInternal
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConflict, ErrorTypePermission:
		return appErr.Message
	case ErrorTypeExternal:
		if msg, ok := appErr.Context["user_message"].(string); ok {
			return msg
		}
		return MsgAnalysisFailed
	default:
		return MsgInternal
	}
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypePermission:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error at a level chosen by its type.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypePermission, ErrorTypeNotFound, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "Request rejected", appErr.LogFields()...)
	case ErrorTypePersistence:
		h.logger.WarnContext(ctx, "Persistence degraded", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Request failed", appErr.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors
var (
	ErrUserNotFound      = New(ErrorTypeNotFound, "USER_NOT_FOUND", "Usuário não encontrado")
	ErrNoPendingAnalysis = New(ErrorTypeConflict, "NO_PENDING_ANALYSIS", "Nenhuma análise para registrar")
	ErrUnauthorized      = New(ErrorTypePermission, "UNAUTHORIZED", "Acesso não autorizado")
	ErrCorruptBlob       = New(ErrorTypePersistence, "CORRUPT_BLOB", "Stored document is malformed")
)

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewPersistenceError(err error, key string) *AppError {
	return Wrap(err, ErrorTypePersistence, "PERSISTENCE", "Key-value store operation failed").
		WithContext("key", key)
}

// NewRemoteError wraps a failure of the remote AI capability. userMessage is
// what the end user sees for this operation.
func NewRemoteError(err error, operation, userMessage string) *AppError {
	return Wrap(err, ErrorTypeExternal, "REMOTE_CAPABILITY", fmt.Sprintf("%s failed", operation)).
		WithContext("operation", operation).
		WithContext("user_message", userMessage)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
