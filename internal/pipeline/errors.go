package pipeline

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindInput           Kind = "INPUT_ERROR"
	KindCredential      Kind = "CREDENTIAL_ERROR"
	KindUpstreamAPI     Kind = "UPSTREAM_API_ERROR"
	KindStageProcess    Kind = "STAGE_PROCESS_ERROR"
	KindArtifactMissing Kind = "ARTIFACT_MISSING"
)

// Error is returned by every pipeline component. Detail carries raw upstream
// diagnostics (a response body, a stage's stderr) for the caller.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Op == "" || t.Op == e.Op)
	}
	return false
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func InputError(op, message string, err error) *Error {
	return newError(KindInput, op, message, err)
}

func CredentialError(op, message string) *Error {
	return newError(KindCredential, op, message, nil)
}

func UpstreamAPIError(op, message, body string, err error) *Error {
	e := newError(KindUpstreamAPI, op, message, err)
	e.Detail = body
	return e
}

func StageProcessError(op, message, stderr string, err error) *Error {
	e := newError(KindStageProcess, op, message, err)
	e.Detail = stderr
	return e
}

func ArtifactMissingError(op, message string) *Error {
	return newError(KindArtifactMissing, op, message, nil)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// HTTPStatus maps an error to a response status. Only input problems are the
// caller's fault; everything else is a failed stage.
func HTTPStatus(err error) int {
	if KindOf(err) == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Describe returns the client-facing message and raw detail for err.
func Describe(err error) (message, detail string) {
	var pe *Error
	if errors.As(err, &pe) {
		detail = pe.Detail
		if detail == "" && pe.Err != nil {
			detail = pe.Err.Error()
		}
		return pe.Message, detail
	}
	return "Internal Server Error", err.Error()
}
