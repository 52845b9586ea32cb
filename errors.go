package sendblue

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of failure classes surfaced by this package.
type Kind int

const (
	// KindValidation means a request failed a local precondition. The network
	// was never contacted.
	KindValidation Kind = iota + 1
	// KindTransport means the HTTP round trip itself failed (connection,
	// cancellation, open circuit).
	KindTransport
	// KindAPI means Sendblue answered with a non-2xx status.
	KindAPI
	// KindDecode means the response body did not match the expected schema.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against an *Error's Kind.
var (
	ErrValidation = errors.New("sendblue: validation error")
	ErrTransport  = errors.New("sendblue: transport error")
	ErrAPI        = errors.New("sendblue: api error")
	ErrDecode     = errors.New("sendblue: decode error")
)

// Error is returned by every builder and client operation on failure.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "send" or "message builder".
	Op string

	// StatusCode and Body are set for KindAPI (and KindDecode when a body was read).
	StatusCode int
	Body       string
	// Message is the provider's error_message/message field when the body was JSON.
	Message string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("sendblue: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind sentinels so callers can write errors.Is(err, ErrAPI).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrAPI:
		return e.Kind == KindAPI
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsBadRequest reports whether err is an API error with status 400.
func IsBadRequest(err error) bool {
	return statusOf(err) == http.StatusBadRequest
}

// IsUnauthorized reports whether err is an API error with status 401 or 403.
func IsUnauthorized(err error) bool {
	s := statusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

func statusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAPI {
		return e.StatusCode
	}
	return 0
}

func validationError(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

func missingField(op, field string) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("%s is required", field)}
}

// apiErrorBody is the error envelope Sendblue uses for rejected requests.
type apiErrorBody struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
}

func newAPIError(op string, status int, body []byte) *Error {
	e := &Error{
		Kind:       KindAPI,
		Op:         op,
		StatusCode: status,
		Body:       string(body),
	}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Message = parsed.ErrorMessage
		if e.Message == "" {
			e.Message = parsed.Message
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
