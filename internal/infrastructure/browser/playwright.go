package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

var installBrowsers = []string{"chromium"}

// Install downloads the Playwright driver and Chromium.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: installBrowsers})
}

type Launcher struct {
	settings entity.BrowserSettings
}

func NewLauncher(settings entity.BrowserSettings) *Launcher {
	return &Launcher{settings: settings}
}

func (l *Launcher) Launch(ctx context.Context) (contract.Session, error) {
	log := logger.FromContext(ctx)

	lock, err := AcquireProfileLock(l.settings.UserDataDir)
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run(&playwright.RunOptions{Browsers: installBrowsers})
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("%w: starting playwright: %v", domain.ErrBrowserLaunch, err)
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(l.settings.UserDataDir, l.persistentContextOptions())
	if err != nil {
		pw.Stop()
		lock.Release()
		return nil, fmt.Errorf("%w: launching chromium: %v", domain.ErrBrowserLaunch, err)
	}

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = bctx.NewPage(); err != nil {
		bctx.Close()
		pw.Stop()
		lock.Release()
		return nil, fmt.Errorf("%w: opening page: %v", domain.ErrBrowserLaunch, err)
	}
	page.SetDefaultTimeout(float64(l.settings.Timeout))

	log.Info("browser initialized",
		"headless", l.settings.Headless,
		"user_data_dir", l.settings.UserDataDir,
		"locale", l.settings.Locale)

	return &session{pw: pw, context: bctx, page: &pageAdapter{page: page}, lock: lock}, nil
}

func (l *Launcher) persistentContextOptions() playwright.BrowserTypeLaunchPersistentContextOptions {
	s := l.settings
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(s.Headless),
		Args:              s.Args,
		IgnoreDefaultArgs: s.IgnoreDefaultArgs,
		Locale:            playwright.String(s.Locale),
		TimezoneId:        playwright.String(s.TimezoneID),
		DeviceScaleFactor: playwright.Float(s.DeviceScaleFactor),
	}
	if s.UserAgent != "" {
		opts.UserAgent = playwright.String(s.UserAgent)
	}
	if s.Viewport != nil {
		opts.Viewport = &playwright.Size{Width: s.Viewport.Width, Height: s.Viewport.Height}
	}
	return opts
}

type session struct {
	pw      *playwright.Playwright
	context playwright.BrowserContext
	page    *pageAdapter
	lock    *ProfileLock
}

func (s *session) Page() contract.Page {
	return s.page
}

// Close releases page, context, engine and profile lock in that order.
// Every step runs even when an earlier one fails.
func (s *session) Close(ctx context.Context) error {
	log := logger.FromContext(ctx)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"page", s.page.Close},
		{"context", func() error { return s.context.Close() }},
		{"playwright", s.pw.Stop},
		{"profile lock", s.lock.Release},
	}

	var errs []error
	for _, step := range steps {
		if err := guard(step.fn); err != nil {
			log.Error("cleanup step failed", "step", step.name, "error", err)
			errs = append(errs, fmt.Errorf("closing %s: %w", step.name, err))
		}
	}
	if len(errs) == 0 {
		log.Info("browser cleanup completed")
	}
	return errors.Join(errs...)
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrUnexpected, r)
		}
	}()
	return fn()
}

type pageAdapter struct {
	page playwright.Page
}

func (p *pageAdapter) QuerySelector(selector string) (contract.Element, error) {
	h, err := p.page.QuerySelector(selector)
	if err != nil || h == nil {
		return nil, err
	}
	return &elementAdapter{handle: h}, nil
}

func (p *pageAdapter) URL() string {
	return p.page.URL()
}

func (p *pageAdapter) Goto(url string) error {
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrNavigation, url, translate(err))
	}
	return nil
}

func (p *pageAdapter) WaitForNetworkIdle(timeout time.Duration) error {
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(millis(timeout)),
	})
	return translate(err)
}

func (p *pageAdapter) WaitForSelector(selector string, timeout time.Duration) (contract.Element, error) {
	h, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return nil, translate(err)
	}
	if h == nil {
		return nil, nil
	}
	return &elementAdapter{handle: h}, nil
}

func (p *pageAdapter) Evaluate(script string) (any, error) {
	return p.page.Evaluate(script)
}

func (p *pageAdapter) Close() error {
	if p == nil || p.page == nil || p.page.IsClosed() {
		return nil
	}
	return p.page.Close()
}

type elementAdapter struct {
	handle playwright.ElementHandle
}

func (e *elementAdapter) QuerySelector(selector string) (contract.Element, error) {
	h, err := e.handle.QuerySelector(selector)
	if err != nil || h == nil {
		return nil, err
	}
	return &elementAdapter{handle: h}, nil
}

func (e *elementAdapter) TagName() (string, error) {
	v, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return "", err
	}
	tag, _ := v.(string)
	return tag, nil
}

func (e *elementAdapter) Focus() error {
	return e.handle.Focus()
}

func (e *elementAdapter) Fill(value string) error {
	return translate(e.handle.Fill(value))
}

func (e *elementAdapter) Click() error {
	return translate(e.handle.Click())
}

func (e *elementAdapter) InnerText() (string, error) {
	return e.handle.InnerText()
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", domain.ErrWaitTimeout, err)
	}
	return err
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
