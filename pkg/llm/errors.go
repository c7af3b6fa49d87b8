package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

// Code classifies a generation failure. The HTTP layer maps codes to status
// codes; Retryable tells clients whether backing off and retrying can help.
type Code string

const (
	CodeTimeout       Code = "LLM_TIMEOUT"
	CodeAuth          Code = "LLM_AUTH_ERROR"
	CodeRateLimit     Code = "LLM_RATE_LIMIT"
	CodeInputTooLarge Code = "LLM_INPUT_TOO_LARGE"
	CodeProvider      Code = "LLM_PROVIDER_ERROR"
	CodeUnknown       Code = "LLM_ERROR"
)

// Error is a classified generation failure.
type Error struct {
	Code      Code
	Message   string
	Retryable bool
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// AsError extracts a classified *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr, true
	}
	return nil, false
}

// classify maps a raw provider error onto an error code. Timeouts are checked
// before SDK status codes because a cancelled request may carry both.
func classify(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Code: CodeTimeout, Message: "生成リクエストがタイムアウトしました", Retryable: true, cause: err}
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return &Error{Code: CodeAuth, Message: "LLMプロバイダの認証に失敗しました", Retryable: false, cause: err}
		case apiErr.StatusCode == 429:
			return &Error{Code: CodeRateLimit, Message: "LLMプロバイダのレート制限に達しました", Retryable: true, cause: err}
		case apiErr.StatusCode == 413 || (apiErr.StatusCode == 400 && looksTooLarge(err.Error())):
			return &Error{Code: CodeInputTooLarge, Message: "プロンプトが入力サイズ上限を超えています", Retryable: false, cause: err}
		case apiErr.StatusCode >= 500:
			return &Error{Code: CodeProvider, Message: "LLMプロバイダでエラーが発生しました", Retryable: true, cause: err}
		}
	}

	return &Error{Code: CodeUnknown, Message: "生成に失敗しました", Retryable: false, cause: err}
}

func looksTooLarge(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "too large") || strings.Contains(lower, "too long")
}
