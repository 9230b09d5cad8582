package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{"unauthorized", E(CodeUnauthorized, "op", "no", nil), http.StatusUnauthorized},
		{"forbidden", E(CodeForbidden, "op", "no", nil), http.StatusForbidden},
		{"not found", E(CodeNotFound, "op", "missing", ErrNotFound), http.StatusNotFound},
		{"conflict", E(CodeConflict, "op", "dup", nil), http.StatusConflict},
		{"unavailable", E(CodeUnavailable, "op", "down", nil), http.StatusServiceUnavailable},
		{"timeout", E(CodeTimeout, "op", "slow", nil), http.StatusGatewayTimeout},
		{"internal", E(CodeInternal, "op", "boom", nil), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("ctx: %w", E(CodeForbidden, "op", "no", nil)), http.StatusForbidden},
		{"bare not found", ErrNotFound, http.StatusNotFound},
		{"bare duplicate", fmt.Errorf("insert: %w", ErrDuplicate), http.StatusConflict},
		{"plain error", errors.New("x"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	inner := errors.New("socket closed")
	tests := []struct {
		err  *AppError
		want string
	}{
		{&AppError{Op: "A.B", Message: "failed", Err: inner}, "A.B: failed: socket closed"},
		{&AppError{Op: "A.B", Message: "failed"}, "A.B: failed"},
		{&AppError{Op: "A.B", Err: inner}, "A.B: socket closed"},
		{&AppError{Message: "failed"}, "failed"},
		{&AppError{}, "error"},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
	if !errors.Is(E(CodeInternal, "op", "m", inner), inner) {
		t.Error("AppError does not unwrap to its cause")
	}
}

func TestIsCode(t *testing.T) {
	err := E(CodeNotFound, "SessionService.Get", "session not found", ErrNotFound)
	if !IsCode(err, CodeNotFound) {
		t.Error("IsCode(NOT_FOUND) = false")
	}
	if IsCode(err, CodeInternal) {
		t.Error("IsCode(INTERNAL) = true")
	}
	if IsCode(nil, CodeInternal) {
		t.Error("IsCode(nil) = true")
	}
}

func TestPassword(t *testing.T) {
	if _, err := HashPassword("abc"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword(short) err = %v, want ErrPasswordTooShort", err)
	}
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword(match) = %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); err == nil {
		t.Error("CheckPassword(mismatch) = nil")
	}
}
