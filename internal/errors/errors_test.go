package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesTypeAndCode(t *testing.T) {
	err := fmt.Errorf("log food: %w", New(ErrorTypeConflict, "NO_PENDING_ANALYSIS", "other text"))

	assert.True(t, errors.Is(err, ErrNoPendingAnalysis))
	assert.False(t, errors.Is(err, ErrUserNotFound))
}

func TestWrap_UnwrapsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewRemoteError(cause, "analyze", MsgAnalysisFailed)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeExternal, TypeOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation passes message", NewValidationError("Informe os ingredientes"), "Informe os ingredientes"},
		{"remote uses operation message", NewRemoteError(errors.New("boom"), "recipe", MsgRecipeFailed), MsgRecipeFailed},
		{"remote without message", Wrap(errors.New("boom"), ErrorTypeExternal, "X", "x"), MsgAnalysisFailed},
		{"internal hides detail", NewInternalError(errors.New("nil pointer")), MsgInternal},
		{"foreign error", errors.New("raw"), MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidationError("x")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrUserNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrNoPendingAnalysis))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewRemoteError(errors.New("x"), "chat", MsgChatFailed)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}

func TestHandler_LogsByType(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), NewValidationError("bad"))
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	h.Handle(context.Background(), NewRemoteError(errors.New("down"), "analyze", MsgAnalysisFailed))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "operation=analyze")

	buf.Reset()
	h.Handle(context.Background(), nil)
	assert.Empty(t, buf.String())
}
