package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapOp(t *testing.T) {
	if WrapOp("login", nil) != nil {
		t.Error("expected nil for nil cause")
	}
	err := WrapOp("login", ErrElementNotFound)
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected wrapped ErrElementNotFound, got %v", err)
	}
	if err.Error() != "login: element not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMissingElement(t *testing.T) {
	err := MissingElement("password field")
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected ErrElementNotFound, got %v", err)
	}
}

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", fmt.Errorf("open: %w", ErrConfigNotFound), true},
		{"parse", fmt.Errorf("x: %w", ErrConfigParseFailed), true},
		{"validate", RequiredField("credentials.username"), false},
		{"validate wrapped", fmt.Errorf("%w: %w", ErrConfigValidateFail, RequiredField("x")), true},
		{"missing secret", fmt.Errorf("credentials.password: %w", ErrMissingSecret), true},
		{"login", ErrLoginFailed, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigError(tt.err); got != tt.want {
				t.Errorf("IsConfigError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
