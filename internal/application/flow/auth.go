package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/browser"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

type LoginState int

const (
	LoginNotStarted LoginState = iota
	LoginOnLoginPage
	LoginSubmitting
	LoginAuthenticated
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginNotStarted:
		return "not_started"
	case LoginOnLoginPage:
		return "on_login_page"
	case LoginSubmitting:
		return "submitting"
	case LoginAuthenticated:
		return "authenticated"
	case LoginFailed:
		return "failed"
	}
	return fmt.Sprintf("LoginState(%d)", int(s))
}

// LoginFlow brings the page to the DNS settings screen, signing in when the
// console redirects to its login form. One Run is one attempt; callers
// retry by running it again on the same page.
type LoginFlow struct {
	page     contract.Page
	settings Settings
	state    LoginState
}

func NewLoginFlow(page contract.Page, settings Settings) *LoginFlow {
	return &LoginFlow{page: page, settings: settings}
}

func (f *LoginFlow) State() LoginState {
	return f.state
}

func (f *LoginFlow) Run(ctx context.Context) error {
	f.state = LoginNotStarted
	if err := f.run(ctx); err != nil {
		f.state = LoginFailed
		logger.FromContext(ctx).Debug("login attempt failed", "state", f.state, "error", err)
		return err
	}
	f.state = LoginAuthenticated
	return nil
}

func (f *LoginFlow) run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	s := f.settings
	t := s.Timing

	if err := f.page.WaitForNetworkIdle(t.NetworkIdleTimeout); err != nil {
		return domain.WrapOp("wait for network idle", err)
	}

	log.Info("navigating to DNS settings page", "url", s.DNSSettingsURL)
	if err := f.page.Goto(s.DNSSettingsURL); err != nil {
		return err
	}

	if !onLoginPage(f.page.URL()) {
		log.Info("already logged in, proceeding to DNS settings")
		return nil
	}

	f.state = LoginOnLoginPage
	log.Info("redirected to login page, attempting login")

	if _, err := f.page.WaitForSelector(strings.Join(s.Selectors.LoginReady, ", "), t.LoginTimeout); err != nil {
		return domain.WrapOp("wait for login form", err)
	}

	if err := f.fill(ctx, s.Selectors.Username, "username field", s.Credentials.Username); err != nil {
		return err
	}
	if err := f.fill(ctx, s.Selectors.Password, "password field", s.Credentials.Password); err != nil {
		return err
	}

	submit, ok := browser.FindElement(ctx, f.page, s.Selectors.Submit)
	if !ok {
		return domain.MissingElement("submit button")
	}

	if err := f.page.WaitForNetworkIdle(t.NetworkIdleTimeout); err != nil {
		return domain.WrapOp("wait for network idle", err)
	}
	if err := s.sleep(ctx, t.ChallengeRenderDelay); err != nil {
		return err
	}
	done, err := waitForChallenge(ctx, f.page, s)
	if err != nil {
		return err
	}
	if !done {
		log.Warn("challenge completion not observed, submitting anyway", "window", t.ChallengePollWindow)
	}

	if err := submit.Click(); err != nil {
		return domain.WrapOp("click submit", err)
	}
	f.state = LoginSubmitting

	if err := f.page.WaitForNetworkIdle(t.LoginTimeout); err != nil {
		return domain.WrapOp("wait after submit", err)
	}

	if onLoginPage(f.page.URL()) {
		if el, ok := browser.FindElement(ctx, f.page, s.Selectors.LoginError); ok {
			text, _ := el.InnerText()
			return fmt.Errorf("%w: %s", domain.ErrLoginFailed, strings.TrimSpace(text))
		}
		return fmt.Errorf("%w: still on login page", domain.ErrLoginFailed)
	}

	log.Info("login successful")
	if err := f.page.Goto(s.DNSSettingsURL); err != nil {
		return err
	}
	if err := f.page.WaitForNetworkIdle(t.NetworkIdleTimeout); err != nil {
		return domain.WrapOp("wait for network idle", err)
	}
	return nil
}

func (f *LoginFlow) fill(ctx context.Context, selectors []string, what, value string) error {
	el, ok := browser.FindElement(ctx, f.page, selectors)
	if !ok {
		return domain.MissingElement(what)
	}
	if err := el.Fill(value); err != nil {
		return domain.WrapOp("fill "+what, err)
	}
	return f.settings.sleep(ctx, f.settings.Timing.FieldDelay)
}
