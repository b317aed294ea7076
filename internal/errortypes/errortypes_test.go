package errortypes

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorRendering(t *testing.T) {
	wrapped := AuthError(errors.New("boom"), "login failed")
	if got := wrapped.Error(); got != "login failed: boom" {
		t.Errorf("unexpected message %q", got)
	}

	bare := ValidationError(nil, "team_member_id is required")
	if got := bare.Error(); got != "team_member_id is required" {
		t.Errorf("expected message without wrapped error, got %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := RemoteError(cause, "request failed")

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestTypePredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{CredentialsError(nil, "x"), IsCredentialsError},
		{AuthError(nil, "x"), IsAuthError},
		{RemoteError(nil, "x"), IsRemoteError},
		{SessionError(nil, "x"), IsSessionError},
	}

	for i, tc := range cases {
		if !tc.pred(tc.err) {
			t.Errorf("case %d: predicate rejected its own error", i)
		}
	}

	if IsAuthError(errors.New("plain")) {
		t.Error("plain errors must not match the auth predicate")
	}
	if IsRemoteError(AuthError(nil, "x")) {
		t.Error("auth errors must not match the remote predicate")
	}
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	inner := AuthError(errors.New("boom"), "login failed")
	outer := fmt.Errorf("tool call failed: %w", inner)

	if !IsAuthError(outer) {
		t.Error("expected predicate to unwrap")
	}
}

func TestWithFields(t *testing.T) {
	err := RemoteError(nil, "request failed").
		WithField("status", 502).
		WithFields(map[string]interface{}{"url": "https://example.test"})

	if err.Fields["status"] != 502 {
		t.Errorf("unexpected status field %v", err.Fields["status"])
	}
	if err.Fields["url"] != "https://example.test" {
		t.Errorf("unexpected url field %v", err.Fields["url"])
	}
}

func TestStackCaptured(t *testing.T) {
	err := InternalError(nil, "x")
	if err.StackInfo == "" {
		t.Error("expected a captured stack")
	}
}
