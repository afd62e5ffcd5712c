package entity

import "strings"

const (
	PlaceholderIP         = "{ip}"
	PlaceholderButtonText = "{button_text}"
)

// Selectors holds the ordered fallback lists used to find controls on the
// registrar console. Earlier entries win; the most specific markup comes
// first and generic attribute matches last.
type Selectors struct {
	Username       []string `json:"username,omitempty" yaml:"username,omitempty"`
	Password       []string `json:"password,omitempty" yaml:"password,omitempty"`
	Submit         []string `json:"submit,omitempty" yaml:"submit,omitempty"`
	LoginError     []string `json:"login_error,omitempty" yaml:"login_error,omitempty"`
	LoginReady     []string `json:"login_ready,omitempty" yaml:"login_ready,omitempty"`
	ExistingRecord []string `json:"existing_record,omitempty" yaml:"existing_record,omitempty"`
	ConfigureByIP  []string `json:"configure_by_ip,omitempty" yaml:"configure_by_ip,omitempty"`
	IPInput        []string `json:"ip_input,omitempty" yaml:"ip_input,omitempty"`
	IPSubmit       []string `json:"ip_submit,omitempty" yaml:"ip_submit,omitempty"`

	// ChallengeScript is evaluated in the page and must return true once the
	// anti-bot widget has produced a token or shows a checked state.
	ChallengeScript string `json:"challenge_script,omitempty" yaml:"challenge_script,omitempty"`
}

const defaultChallengeScript = `() => {
	if (typeof grecaptcha !== 'undefined') {
		try {
			const response = grecaptcha.getResponse();
			if (response && response.length > 0) {
				return true;
			}
		} catch (e) {}
	}
	if (document.querySelectorAll('.recaptcha-checkbox-checked, .recaptcha-success').length > 0) {
		return true;
	}
	for (const input of document.querySelectorAll('input[name="recaptchaToken"]')) {
		if (input.value && input.value.length > 0) {
			return true;
		}
	}
	return false;
}`

func DefaultSelectors() Selectors {
	return Selectors{
		Username: []string{
			`input[name="username"]`,
			`input[type="email"]`,
			`#username`,
			`input[placeholder*="username" i]`,
			`input[placeholder*="email" i]`,
		},
		Password: []string{
			`input[name="password"]`,
			`input[type="password"]`,
			`#password`,
		},
		Submit: []string{
			`button[type="submit"]`,
			`input[type="submit"]`,
			`input[name="submit"]`,
			`button:has-text("Login")`,
			`button:has-text("Đăng nhập")`,
			`.btn-login`,
		},
		LoginError: []string{
			`.error`,
			`.alert-danger`,
			`.login-error`,
			`[class*="error"]`,
			`[class*="alert"]`,
		},
		LoginReady: []string{
			`input[name="username"], input[type="email"], #username`,
		},
		ExistingRecord: []string{
			`tr:has-text("{ip}")`,
			`td:has-text("{ip}")`,
		},
		ConfigureByIP: []string{
			`tr:has-text("{button_text}")`,
			`li.ip_popup > a`,
			`li:has-text("{button_text}") a`,
		},
		IPInput: []string{
			`#ip`,
			`input[type="text"]`,
		},
		IPSubmit: []string{
			`#send`,
			`button[type="submit"]`,
		},
		ChallengeScript: defaultChallengeScript,
	}
}

// Merge returns s with every non-empty list of override replacing its
// counterpart. Lists are replaced whole, never concatenated.
func (s Selectors) Merge(override Selectors) Selectors {
	pick := func(base, over []string) []string {
		if len(over) > 0 {
			return append([]string(nil), over...)
		}
		return base
	}
	out := Selectors{
		Username:        pick(s.Username, override.Username),
		Password:        pick(s.Password, override.Password),
		Submit:          pick(s.Submit, override.Submit),
		LoginError:      pick(s.LoginError, override.LoginError),
		LoginReady:      pick(s.LoginReady, override.LoginReady),
		ExistingRecord:  pick(s.ExistingRecord, override.ExistingRecord),
		ConfigureByIP:   pick(s.ConfigureByIP, override.ConfigureByIP),
		IPInput:         pick(s.IPInput, override.IPInput),
		IPSubmit:        pick(s.IPSubmit, override.IPSubmit),
		ChallengeScript: s.ChallengeScript,
	}
	if strings.TrimSpace(override.ChallengeScript) != "" {
		out.ChallengeScript = override.ChallengeScript
	}
	return out
}

// Expand substitutes the {ip} and {button_text} placeholders. Values are
// escaped so they stay inside a double-quoted selector argument.
func Expand(selectors []string, ip, buttonText string) []string {
	escape := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	r := strings.NewReplacer(
		PlaceholderIP, escape.Replace(ip),
		PlaceholderButtonText, escape.Replace(buttonText),
	)
	out := make([]string, len(selectors))
	for i, sel := range selectors {
		out[i] = r.Replace(sel)
	}
	return out
}
