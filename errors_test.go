package sendblue

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindValidation, ErrValidation},
		{KindTransport, ErrTransport},
		{KindAPI, ErrAPI},
		{KindDecode, ErrDecode},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &Error{Kind: tc.kind, Op: "send"})
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tc.sentinel)
			}
			for _, other := range tests {
				if other.kind != tc.kind && errors.Is(err, other.sentinel) {
					t.Fatalf("%s error also matched %v", tc.kind, other.sentinel)
				}
			}
			if KindOf(err) != tc.kind {
				t.Fatalf("KindOf = %v", KindOf(err))
			}
		})
	}

	if KindOf(errors.New("plain")) != 0 {
		t.Fatalf("plain errors have no kind")
	}
}

func TestError_Message(t *testing.T) {
	err := newAPIError("send", http.StatusBadRequest, []byte(`{"status":"ERROR","error_message":"missing content"}`))
	got := err.Error()
	for _, part := range []string{"send", "api", "status 400", "missing content"} {
		if !strings.Contains(got, part) {
			t.Errorf("error %q missing %q", got, part)
		}
	}

	plain := newAPIError("send", http.StatusServiceUnavailable, []byte("<html>down</html>"))
	if plain.Message != http.StatusText(http.StatusServiceUnavailable) || plain.Body != "<html>down</html>" {
		t.Fatalf("unexpected non-JSON api error: %+v", plain)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &Error{Kind: KindTransport, Op: "send", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
}

func TestStatusHelpers(t *testing.T) {
	if !IsUnauthorized(&Error{Kind: KindAPI, StatusCode: http.StatusForbidden}) {
		t.Fatalf("403 should be unauthorized")
	}
	if IsBadRequest(&Error{Kind: KindDecode, StatusCode: http.StatusBadRequest}) {
		t.Fatalf("only api errors carry a request status")
	}
}
