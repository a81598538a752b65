package errx

import (
	"errors"
	"fmt"
)

type Code string

// Error 带错误码的错误。Msg 为可直接展示给用户的文本（例如后端返回的 message）。
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, msg string) *Error { return &Error{Code: code, Msg: msg} }

func Wrap(code Code, err error, msg string) *Error { return &Error{Code: code, Msg: msg, Err: err} }

func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf 返回错误码，非 *Error 时返回空
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf 返回用户可见文本，非 *Error 时返回空
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

const (
	CodeMissingCredential Code = "MISSING_CREDENTIAL"
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"
	CodeNetwork           Code = "NETWORK_ERROR"
	CodeInvalidResponse   Code = "INVALID_RESPONSE"
	CodeStatsUnavailable  Code = "STATS_UNAVAILABLE"
	CodeRejected          Code = "REJECTED"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeStorage           Code = "STORAGE_ERROR"
)
