package export

import (
	"context"
	"errors"
	"net/http"
)

// Kind 是导出失败的分类，决定对外返回的 HTTP 状态码。
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindRenderFailure Kind = "render_failure"
	KindCanceled      Kind = "canceled"
	KindInvalid       Kind = "invalid"
)

// StatusClientClosedRequest is reported when the caller went away mid-export.
const StatusClientClosedRequest = 499

// Error wraps a pipeline failure with its kind and the values needed to
// reproduce it from logs.
type Error struct {
	Kind   Kind
	Msg    string
	ID     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf 提取错误分类；非 *Error 的 context 取消视为 KindCanceled，其余按渲染失败处理。
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var exportErr *Error
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindRenderFailure
}

// StatusCode maps an export error to an HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case "":
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalid:
		return http.StatusBadRequest
	case KindCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
