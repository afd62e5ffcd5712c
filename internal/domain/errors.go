package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIP  = errors.New("invalid IP address")
	ErrInvalidURL = errors.New("invalid URL")
	ErrEmptyValue = errors.New("empty value")
	ErrRequired   = errors.New("required field missing")

	ErrConfigReadFailed   = errors.New("config read failed")
	ErrConfigParseFailed  = errors.New("config parse failed")
	ErrConfigValidateFail = errors.New("config validation failed")
	ErrConfigNotFound     = errors.New("config not found")
	ErrMissingSecret      = errors.New("secret not found")

	ErrIPResolveFailed = errors.New("could not determine public IP address")

	ErrBrowserLaunch   = errors.New("browser launch failed")
	ErrProfileLocked   = errors.New("browser profile is locked by another run")
	ErrElementNotFound = errors.New("element not found")
	ErrNavigation      = errors.New("navigation failed")
	ErrWaitTimeout     = errors.New("wait timed out")

	ErrLoginFailed  = errors.New("login failed")
	ErrUpdateFailed = errors.New("DNS update failed")
	ErrUnexpected   = errors.New("unexpected failure")
)

func RequiredField(field string) error {
	return fmt.Errorf("%w: %s", ErrRequired, field)
}

func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// MissingElement reports which control could not be located.
func MissingElement(what string) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, what)
}

// IsConfigError reports whether err belongs to the configuration class,
// which is fatal before any automation starts.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrConfigReadFailed) ||
		errors.Is(err, ErrConfigParseFailed) ||
		errors.Is(err, ErrConfigValidateFail) ||
		errors.Is(err, ErrMissingSecret)
}
