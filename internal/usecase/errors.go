package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// handlerがそのままHTTPステータスにする業務エラー。
// Causeはログ用で、レスポンスには出さない。
type HTTPError struct {
	Status  int
	Message string
	Cause   error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func errNotFound() error {
	return NewHTTPError(http.StatusNotFound, "not found")
}

func errForbidden() error {
	return NewHTTPError(http.StatusForbidden, "forbidden")
}

// DBの失敗。原因はCauseに残す
func errDB(cause error) error {
	return &HTTPError{Status: http.StatusInternalServerError, Message: "db error", Cause: cause}
}

// 入力エラー（422）。キーは "wedding_details.venue" のようなフィールド名。
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// 同じフィールドは最初のメッセージを残す
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// 1件もなければnil
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
