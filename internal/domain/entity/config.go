package entity

import (
	"fmt"
	"net/url"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain"
)

type Config struct {
	Credentials     Credentials     `json:"credentials" yaml:"credentials"`
	DomainSettings  DomainSettings  `json:"domain_settings" yaml:"domain_settings"`
	BrowserSettings BrowserSettings `json:"browser_settings" yaml:"browser_settings"`
	Logging         Logging         `json:"logging" yaml:"logging"`
	IPServices      []string        `json:"ip_services,omitempty" yaml:"ip_services,omitempty"`
	Automation      Automation      `json:"automation" yaml:"automation"`
	Selectors       Selectors       `json:"selectors" yaml:"selectors"`
	SelectorsFile   string          `json:"selectors_file,omitempty" yaml:"selectors_file,omitempty"`
	StateFile       string          `json:"state_file,omitempty" yaml:"state_file,omitempty"`
}

type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

type DomainSettings struct {
	ConfigurationByIPButtonText string `json:"configuration_by_ip_btn_text" yaml:"configuration_by_ip_btn_text"`
	DNSSettingsURL              string `json:"dns_settings_url,omitempty" yaml:"dns_settings_url,omitempty"`
}

type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type BrowserSettings struct {
	Headless          bool      `json:"headless" yaml:"headless"`
	Args              []string  `json:"args,omitempty" yaml:"args,omitempty"`
	IgnoreDefaultArgs []string  `json:"ignore_default_args,omitempty" yaml:"ignore_default_args,omitempty"`
	UserAgent         string    `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	UserDataDir       string    `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	Viewport          *Viewport `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	DeviceScaleFactor float64   `json:"device_scale_factor,omitempty" yaml:"device_scale_factor,omitempty"`
	Locale            string    `json:"locale,omitempty" yaml:"locale,omitempty"`
	TimezoneID        string    `json:"timezone_id,omitempty" yaml:"timezone_id,omitempty"`
	// Timeout is the page default timeout in milliseconds.
	Timeout int `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type Logging struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

type Automation struct {
	LoginAttempts int            `json:"login_attempts,omitempty" yaml:"login_attempts,omitempty"`
	Timing        TimingSettings `json:"timing" yaml:"timing"`
}

// TimingSettings are millisecond overrides; zero keeps the built-in value.
type TimingSettings struct {
	LoginTimeoutMs         int `json:"login_timeout_ms,omitempty" yaml:"login_timeout_ms,omitempty"`
	NetworkIdleTimeoutMs   int `json:"network_idle_timeout_ms,omitempty" yaml:"network_idle_timeout_ms,omitempty"`
	RecordProbeTimeoutMs   int `json:"record_probe_timeout_ms,omitempty" yaml:"record_probe_timeout_ms,omitempty"`
	ChallengeRenderDelayMs int `json:"challenge_render_delay_ms,omitempty" yaml:"challenge_render_delay_ms,omitempty"`
	ChallengePollWindowMs  int `json:"challenge_poll_window_ms,omitempty" yaml:"challenge_poll_window_ms,omitempty"`
	ChallengePollMinMs     int `json:"challenge_poll_min_ms,omitempty" yaml:"challenge_poll_min_ms,omitempty"`
	ChallengePollMaxMs     int `json:"challenge_poll_max_ms,omitempty" yaml:"challenge_poll_max_ms,omitempty"`
	FieldDelayMs           int `json:"field_delay_ms,omitempty" yaml:"field_delay_ms,omitempty"`
	FormOpenDelayMs        int `json:"form_open_delay_ms,omitempty" yaml:"form_open_delay_ms,omitempty"`
	SettleDelayMs          int `json:"settle_delay_ms,omitempty" yaml:"settle_delay_ms,omitempty"`
	IPServiceTimeoutMs     int `json:"ip_service_timeout_ms,omitempty" yaml:"ip_service_timeout_ms,omitempty"`
}

// Timing is the resolved set of waits used by the flows.
type Timing struct {
	LoginTimeout         time.Duration
	NetworkIdleTimeout   time.Duration
	RecordProbeTimeout   time.Duration
	ChallengeRenderDelay time.Duration
	ChallengePollWindow  time.Duration
	ChallengePollMin     time.Duration
	ChallengePollMax     time.Duration
	FieldDelay           time.Duration
	FormOpenDelay        time.Duration
	SettleDelay          time.Duration
	IPServiceTimeout     time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		LoginTimeout:         domain.DefaultLoginTimeout,
		NetworkIdleTimeout:   domain.DefaultNetworkIdleTimeout,
		RecordProbeTimeout:   domain.DefaultRecordProbeTimeout,
		ChallengeRenderDelay: domain.DefaultChallengeRenderDelay,
		ChallengePollWindow:  domain.DefaultChallengePollWindow,
		ChallengePollMin:     domain.DefaultChallengePollMin,
		ChallengePollMax:     domain.DefaultChallengePollMax,
		FieldDelay:           domain.DefaultFieldDelay,
		FormOpenDelay:        domain.DefaultFormOpenDelay,
		SettleDelay:          domain.DefaultSettleDelay,
		IPServiceTimeout:     domain.DefaultIPServiceTimeout,
	}
}

func (t TimingSettings) Resolve() Timing {
	out := DefaultTiming()
	set := func(dst *time.Duration, ms int) {
		if ms > 0 {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}
	set(&out.LoginTimeout, t.LoginTimeoutMs)
	set(&out.NetworkIdleTimeout, t.NetworkIdleTimeoutMs)
	set(&out.RecordProbeTimeout, t.RecordProbeTimeoutMs)
	set(&out.ChallengeRenderDelay, t.ChallengeRenderDelayMs)
	set(&out.ChallengePollWindow, t.ChallengePollWindowMs)
	set(&out.ChallengePollMin, t.ChallengePollMinMs)
	set(&out.ChallengePollMax, t.ChallengePollMaxMs)
	set(&out.FieldDelay, t.FieldDelayMs)
	set(&out.FormOpenDelay, t.FormOpenDelayMs)
	set(&out.SettleDelay, t.SettleDelayMs)
	set(&out.IPServiceTimeout, t.IPServiceTimeoutMs)
	if out.ChallengePollMax < out.ChallengePollMin {
		out.ChallengePollMax = out.ChallengePollMin
	}
	return out
}

// ApplyDefaults fills every optional field left empty by the file.
func (c *Config) ApplyDefaults() {
	if c.DomainSettings.DNSSettingsURL == "" {
		c.DomainSettings.DNSSettingsURL = constants.DNSSettingsURL
	}
	if c.BrowserSettings.DeviceScaleFactor == 0 {
		c.BrowserSettings.DeviceScaleFactor = 1
	}
	if c.BrowserSettings.Locale == "" {
		c.BrowserSettings.Locale = constants.DefaultLocale
	}
	if c.BrowserSettings.TimezoneID == "" {
		c.BrowserSettings.TimezoneID = constants.DefaultTimezoneID
	}
	if c.BrowserSettings.Timeout == 0 {
		c.BrowserSettings.Timeout = constants.DefaultPageTimeoutMs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.File == "" {
		c.Logging.File = constants.DefaultLogFile
	}
	if c.StateFile == "" {
		c.StateFile = constants.DefaultStateFile
	}
	if len(c.IPServices) == 0 {
		c.IPServices = append([]string(nil), constants.DefaultIPServices...)
	}
	if c.Automation.LoginAttempts == 0 {
		c.Automation.LoginAttempts = domain.DefaultLoginAttempts
	}
	c.Selectors = DefaultSelectors().Merge(c.Selectors)
}

func (c *Config) Validate() error {
	if err := c.Credentials.Validate(); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if c.DomainSettings.ConfigurationByIPButtonText == "" {
		return domain.RequiredField("domain_settings.configuration_by_ip_btn_text")
	}
	if c.DomainSettings.DNSSettingsURL != "" {
		if err := validateURL(c.DomainSettings.DNSSettingsURL); err != nil {
			return fmt.Errorf("domain_settings.dns_settings_url: %w", err)
		}
	}
	if err := c.BrowserSettings.Validate(); err != nil {
		return fmt.Errorf("browser_settings: %w", err)
	}
	for i, svc := range c.IPServices {
		if err := validateURL(svc); err != nil {
			return fmt.Errorf("ip_services[%d]: %w", i, err)
		}
	}
	if c.Automation.LoginAttempts < 0 {
		return fmt.Errorf("automation.login_attempts: must not be negative, got %d", c.Automation.LoginAttempts)
	}
	return nil
}

func (c *Credentials) Validate() error {
	if c.Username == "" {
		return domain.RequiredField("username")
	}
	if c.Password == "" {
		return domain.RequiredField("password")
	}
	return nil
}

func (b *BrowserSettings) Validate() error {
	if b.Viewport != nil && (b.Viewport.Width <= 0 || b.Viewport.Height <= 0) {
		return fmt.Errorf("viewport: width and height must be positive, got %dx%d", b.Viewport.Width, b.Viewport.Height)
	}
	if b.DeviceScaleFactor < 0 {
		return fmt.Errorf("device_scale_factor: must not be negative")
	}
	if b.Timeout < 0 {
		return fmt.Errorf("timeout: must not be negative")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s: scheme must be http or https", domain.ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s: missing host", domain.ErrInvalidURL, raw)
	}
	return nil
}
