package domain

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "invoice.create",
				Message: "invalid input",
			},
			expected: "invoice.create: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "invoice.create",
				Message: "failed to save",
				Err:     errors.New("database connection failed"),
			},
			expected: "invoice.create: failed to save: database connection failed",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save",
				Err:     errors.New("database connection failed"),
			},
			expected: "failed to save: database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:    EINTERNAL,
		Message: "wrapped",
		Err:     underlying,
	}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlying)
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should find the underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "domain error",
			err:      &Error{Code: ENOTFOUND, Message: "not found"},
			expected: ENOTFOUND,
		},
		{
			name:     "wrapped domain error",
			err:      WrapError(&Error{Code: ECOLLABORATOR, Message: "store down"}, EINTERNAL, "op", "outer"),
			expected: EINTERNAL,
		},
		{
			name:     "validation error",
			err:      NewValidationError("invoice.create", "quantity", "must be positive"),
			expected: EINVALID,
		},
		{
			name:     "plain error",
			err:      errors.New("something broke"),
			expected: EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "user-facing message",
			err:      &Error{Code: EINVALID, Message: "price must be positive"},
			expected: "price must be positive",
		},
		{
			name:     "internal hides details",
			err:      &Error{Code: EINTERNAL, Message: "pgx: broken pipe"},
			expected: "An internal error occurred. Please try again later.",
		},
		{
			name:     "unknown error hides details",
			err:      errors.New("secret detail"),
			expected: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single field names the field", func(t *testing.T) {
		err := NewValidationError("client.create", "taxId", "is required")
		want := "client.create: taxId: is required"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("accumulates fields", func(t *testing.T) {
		err := NewValidationError("client.create", "taxId", "is required")
		err = AddFieldError(err, "email", "is required")

		fields := GetValidationFields(err)
		if len(fields) != 2 {
			t.Fatalf("expected 2 fields, got %d", len(fields))
		}
		if fields["email"] != "is required" {
			t.Errorf("fields[email] = %q", fields["email"])
		}
	})

	t.Run("AddFieldError starts fresh from nil", func(t *testing.T) {
		err := AddFieldError(nil, "price", "must be greater than zero")
		if !IsValidationError(err) {
			t.Fatal("expected a ValidationError")
		}
	})

	t.Run("non-validation error is not one", func(t *testing.T) {
		if IsValidationError(errors.New("nope")) {
			t.Error("plain error reported as ValidationError")
		}
		if GetValidationFields(errors.New("nope")) != nil {
			t.Error("expected nil fields for plain error")
		}
	})
}

func TestIsCode(t *testing.T) {
	err := Conflict("invoice.create", "duplicate number")
	if !IsCode(err, ECONFLICT) {
		t.Error("IsCode should match ECONFLICT")
	}
	if IsCode(err, ENOTFOUND) {
		t.Error("IsCode should not match ENOTFOUND")
	}
}
