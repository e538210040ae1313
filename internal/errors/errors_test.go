package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidCredential, http.StatusUnauthorized},
		{CodeInactiveAccount, http.StatusUnauthorized},
		{CodeInsufficientPrivilege, http.StatusForbidden},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := NotFound("post not found")

	if !Is(err, ErrNotFound) {
		t.Error("NotFound error should match ErrNotFound sentinel")
	}
	if Is(err, ErrForbidden) {
		t.Error("NotFound error should not match ErrForbidden")
	}
}

func TestErrorIs_ThroughWrapping(t *testing.T) {
	cause := fmt.Errorf("row missing")
	err := Wrap(cause, CodeNotFound, "comment not found")

	if !Is(err, ErrNotFound) {
		t.Error("wrapped error should match ErrNotFound")
	}
	if Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Forbidden("not your post")
	if err.Error() != "not your post" {
		t.Errorf("got %q", err.Error())
	}

	wrapped := err.WithCause(fmt.Errorf("owner mismatch"))
	if wrapped.Error() != "not your post: owner mismatch" {
		t.Errorf("got %q", wrapped.Error())
	}
}

func TestWithDetails(t *testing.T) {
	base := InvalidArgument("validation failed")
	detailed := base.WithDetails(map[string]string{"email": "is required"})

	if detailed.Details == nil {
		t.Fatal("expected details")
	}
	// Original error is untouched.
	if base.Details != nil {
		t.Error("WithDetails must not mutate the receiver")
	}
	// Code survives.
	if !Is(detailed, ErrInvalidArgument) {
		t.Error("detailed error should still match ErrInvalidArgument")
	}
}

func TestPrivilegeVsOwnershipDistinct(t *testing.T) {
	// The two 403 flavors must stay distinguishable by code.
	if Is(ErrInsufficientPrivilege, ErrForbidden) {
		t.Error("INSUFFICIENT_PRIVILEGE must not match FORBIDDEN")
	}
}
