package flow

import (
	"context"
	"fmt"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/browser"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

type UpdateOutcome int

const (
	// OutcomeUnchanged means a row already showed the target IP.
	OutcomeUnchanged UpdateOutcome = iota
	OutcomeSubmitted
)

func (o UpdateOutcome) String() string {
	if o == OutcomeSubmitted {
		return "submitted"
	}
	return "unchanged"
}

// UpdateFlow points the record at an IP from an authenticated DNS
// settings page. A missing control at any step aborts the flow.
type UpdateFlow struct {
	page     contract.Page
	settings Settings
}

func NewUpdateFlow(page contract.Page, settings Settings) *UpdateFlow {
	return &UpdateFlow{page: page, settings: settings}
}

func (f *UpdateFlow) Run(ctx context.Context, ip string) (UpdateOutcome, error) {
	outcome, err := f.run(ctx, ip)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
		logger.FromContext(ctx).Debug("error updating DNS record", "ip", ip, "error", err)
	}
	return outcome, err
}

func (f *UpdateFlow) run(ctx context.Context, ip string) (UpdateOutcome, error) {
	log := logger.FromContext(ctx)
	s := f.settings
	t := s.Timing

	if err := f.page.WaitForNetworkIdle(t.NetworkIdleTimeout); err != nil {
		return OutcomeUnchanged, domain.WrapOp("wait for network idle", err)
	}
	log.Info("updating DNS record", "ip", ip)

	if f.recordExists(ctx, ip) {
		log.Info("found domain row for IP, configuration by IP not needed", "ip", ip)
		return OutcomeUnchanged, nil
	}
	log.Warn("IP not found, configuring by IP", "ip", ip)

	btn, ok := browser.FindElement(ctx, f.page, entity.Expand(s.Selectors.ConfigureByIP, ip, s.ButtonText))
	if !ok {
		return OutcomeUnchanged, domain.MissingElement("configure by IP control")
	}
	log.Info("found configuration by IP control", "text", s.ButtonText)
	if err := btn.Click(); err != nil {
		return OutcomeUnchanged, domain.WrapOp("open configure by IP form", err)
	}
	if err := s.sleep(ctx, t.FormOpenDelay); err != nil {
		return OutcomeUnchanged, err
	}

	input, ok := browser.FindElement(ctx, f.page, s.Selectors.IPInput)
	if !ok {
		return OutcomeUnchanged, domain.MissingElement("IP input field")
	}
	if err := input.Fill(ip); err != nil {
		return OutcomeUnchanged, domain.WrapOp("fill IP", err)
	}

	submit, ok := browser.FindElement(ctx, f.page, s.Selectors.IPSubmit)
	if !ok {
		return OutcomeUnchanged, domain.MissingElement("configure by IP submit button")
	}
	if err := submit.Click(); err != nil {
		return OutcomeUnchanged, domain.WrapOp("submit configure by IP form", err)
	}
	log.Info("configuration by IP submitted", "ip", ip)

	if err := f.page.WaitForNetworkIdle(t.NetworkIdleTimeout); err != nil {
		return OutcomeSubmitted, domain.WrapOp("wait after submit", err)
	}
	if err := s.sleep(ctx, t.SettleDelay); err != nil {
		return OutcomeSubmitted, err
	}
	log.Info("updated config with new IP", "ip", ip)
	return OutcomeSubmitted, nil
}

// recordExists probes each existing-record selector with a short wait.
func (f *UpdateFlow) recordExists(ctx context.Context, ip string) bool {
	log := logger.FromContext(ctx)
	for _, sel := range entity.Expand(f.settings.Selectors.ExistingRecord, ip, f.settings.ButtonText) {
		el, err := f.page.WaitForSelector(sel, f.settings.Timing.RecordProbeTimeout)
		if err != nil {
			log.Debug("record probe missed", "selector", sel, "error", err)
			continue
		}
		if el != nil {
			return true
		}
	}
	return false
}
