package api

import (
	"errors"
	"fmt"
)

var (
	// ErrQuestionRequestFailed marks any failure of a /query call.
	ErrQuestionRequestFailed = errors.New("question request failed")
	// ErrUploadRequestFailed marks any failure of an /addDocuments call.
	ErrUploadRequestFailed = errors.New("upload request failed")
)

// RequestError describes a failed backend call. It matches
// ErrQuestionRequestFailed or ErrUploadRequestFailed with errors.Is, and the
// transport or decode error it wraps.
type RequestError struct {
	Op         string // "query" or "addDocuments"
	StatusCode int    // 0 when no response was received
	Body       string // leading bytes of a non-2xx body
	Err        error

	kind error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: %s returned status %d: %s", e.kind, e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s returned status %d", e.kind, e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %s: %v", e.kind, e.Op, e.Err)
	}
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.Err}
}

// IsStatus reports whether err is a RequestError carrying the given status.
func IsStatus(err error, status int) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == status
}

func questionError(status int, body string, err error) *RequestError {
	return &RequestError{Op: "query", StatusCode: status, Body: body, Err: err, kind: ErrQuestionRequestFailed}
}

func uploadError(status int, body string, err error) *RequestError {
	return &RequestError{Op: "addDocuments", StatusCode: status, Body: body, Err: err, kind: ErrUploadRequestFailed}
}
