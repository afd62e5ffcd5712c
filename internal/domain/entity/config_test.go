package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain"
)

func validConfig() Config {
	return Config{
		Credentials:    Credentials{Username: "owner@example.com", Password: "s3cret"},
		DomainSettings: DomainSettings{ConfigurationByIPButtonText: "Cấu hình theo IP"},
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.DomainSettings.DNSSettingsURL != constants.DNSSettingsURL {
		t.Errorf("DNSSettingsURL = %q", cfg.DomainSettings.DNSSettingsURL)
	}
	if cfg.BrowserSettings.Headless {
		t.Error("Headless should default to false")
	}
	if cfg.BrowserSettings.Locale != "vi-VN" {
		t.Errorf("Locale = %q, want vi-VN", cfg.BrowserSettings.Locale)
	}
	if cfg.BrowserSettings.TimezoneID != "Asia/Ho_Chi_Minh" {
		t.Errorf("TimezoneID = %q", cfg.BrowserSettings.TimezoneID)
	}
	if cfg.BrowserSettings.DeviceScaleFactor != 1 {
		t.Errorf("DeviceScaleFactor = %v, want 1", cfg.BrowserSettings.DeviceScaleFactor)
	}
	if cfg.BrowserSettings.Timeout != 30000 {
		t.Errorf("Timeout = %d, want 30000", cfg.BrowserSettings.Timeout)
	}
	if cfg.Logging.Level != "INFO" || cfg.Logging.File != "ddns_updater.log" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.StateFile != "ddns_state.yaml" {
		t.Errorf("StateFile = %q", cfg.StateFile)
	}
	if len(cfg.IPServices) != 3 || cfg.IPServices[0] != "https://api.ipify.org" {
		t.Errorf("IPServices = %v", cfg.IPServices)
	}
	if cfg.Automation.LoginAttempts != 3 {
		t.Errorf("LoginAttempts = %d, want 3", cfg.Automation.LoginAttempts)
	}
	if len(cfg.Selectors.Username) == 0 || cfg.Selectors.ChallengeScript == "" {
		t.Error("default selectors not applied")
	}
}

func TestConfig_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.BrowserSettings.Locale = "en-US"
	cfg.BrowserSettings.Timeout = 5000
	cfg.Logging.Level = "DEBUG"
	cfg.IPServices = []string{"https://ip.example.test"}
	cfg.Automation.LoginAttempts = 5
	cfg.Selectors.Username = []string{"#login-user"}

	cfg.ApplyDefaults()

	if cfg.BrowserSettings.Locale != "en-US" || cfg.BrowserSettings.Timeout != 5000 {
		t.Errorf("browser settings overwritten: %+v", cfg.BrowserSettings)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if len(cfg.IPServices) != 1 {
		t.Errorf("IPServices = %v", cfg.IPServices)
	}
	if cfg.Automation.LoginAttempts != 5 {
		t.Errorf("LoginAttempts = %d", cfg.Automation.LoginAttempts)
	}
	if len(cfg.Selectors.Username) != 1 || cfg.Selectors.Username[0] != "#login-user" {
		t.Errorf("Username selectors = %v", cfg.Selectors.Username)
	}
	if len(cfg.Selectors.Password) == 0 {
		t.Error("password selectors should fall back to defaults")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		anyErr  bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.Credentials.Username = "" },
			wantErr: domain.ErrRequired,
		},
		{
			name:    "missing password",
			mutate:  func(c *Config) { c.Credentials.Password = "" },
			wantErr: domain.ErrRequired,
		},
		{
			name:    "missing button text",
			mutate:  func(c *Config) { c.DomainSettings.ConfigurationByIPButtonText = "" },
			wantErr: domain.ErrRequired,
		},
		{
			name:    "bad dns settings url",
			mutate:  func(c *Config) { c.DomainSettings.DNSSettingsURL = "ftp://domain.tenten.vn" },
			wantErr: domain.ErrInvalidURL,
		},
		{
			name:    "bad ip service",
			mutate:  func(c *Config) { c.IPServices = []string{"https://api.ipify.org", "not a url"} },
			wantErr: domain.ErrInvalidURL,
		},
		{
			name:   "zero viewport",
			mutate: func(c *Config) { c.BrowserSettings.Viewport = &Viewport{Width: 0, Height: 720} },
			anyErr: true,
		},
		{
			name:   "negative attempts",
			mutate: func(c *Config) { c.Automation.LoginAttempts = -1 },
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			switch {
			case tt.anyErr:
				if err == nil {
					t.Error("Validate() expected error")
				}
			case tt.wantErr == nil:
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
			default:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestTimingSettings_Resolve(t *testing.T) {
	got := TimingSettings{}.Resolve()
	if got != DefaultTiming() {
		t.Errorf("zero settings should resolve to defaults, got %+v", got)
	}
	if got.LoginTimeout != 15*time.Second || got.ChallengePollWindow != 30*time.Second {
		t.Errorf("unexpected defaults %+v", got)
	}

	got = TimingSettings{FieldDelayMs: 10, ChallengePollMinMs: 2000}.Resolve()
	if got.FieldDelay != 10*time.Millisecond {
		t.Errorf("FieldDelay = %v", got.FieldDelay)
	}
	if got.ChallengePollMax < got.ChallengePollMin {
		t.Errorf("poll max %v below min %v", got.ChallengePollMax, got.ChallengePollMin)
	}
}
