package flow

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
)

// Sleeper pauses between UI steps and must return early when ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Settings is the read-only input shared by the login and update flows.
type Settings struct {
	DNSSettingsURL string
	Credentials    entity.Credentials
	ButtonText     string
	Selectors      entity.Selectors
	Timing         entity.Timing
	Sleep          Sleeper
}

func SettingsFromConfig(cfg *entity.Config) Settings {
	return Settings{
		DNSSettingsURL: cfg.DomainSettings.DNSSettingsURL,
		Credentials:    cfg.Credentials,
		ButtonText:     cfg.DomainSettings.ConfigurationByIPButtonText,
		Selectors:      cfg.Selectors,
		Timing:         cfg.Automation.Timing.Resolve(),
		Sleep:          SleepContext,
	}
}

func (s Settings) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep == nil {
		return SleepContext(ctx, d)
	}
	return s.Sleep(ctx, d)
}

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

func onLoginPage(url string) bool {
	return strings.Contains(strings.ToLower(url), constants.LoginURLMarker)
}
