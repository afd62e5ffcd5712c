package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/application/flow"
	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
	"github.com/lite-lake/tenten-ddns/internal/domain/repository"
	"github.com/lite-lake/tenten-ddns/internal/domain/retry"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/ipresolver"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

type Result struct {
	RunID         string
	IP            string
	Outcome       flow.UpdateOutcome
	LoginAttempts int
}

// Runner performs one update: resolve the IP, open the browser, sign in
// with a bounded number of attempts, apply the update, and close the
// browser on every path.
type Runner struct {
	resolver      contract.IPResolver
	launcher      contract.Launcher
	settings      flow.Settings
	loginAttempts int
	store         repository.StateRepository
	now           func() time.Time
}

type Option func(*Runner)

func WithLoginAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.loginAttempts = n
		}
	}
}

// WithStateStore records each successful run.
func WithStateStore(s repository.StateRepository) Option {
	return func(r *Runner) { r.store = s }
}

func NewRunner(resolver contract.IPResolver, launcher contract.Launcher, settings flow.Settings, opts ...Option) *Runner {
	r := &Runner{
		resolver:      resolver,
		launcher:      launcher,
		settings:      settings,
		loginAttempts: domain.DefaultLoginAttempts,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	ctx, runID := logger.WithRunID(ctx)
	log := logger.FromContext(ctx)

	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%w: %v", domain.ErrUnexpected, p)
			log.Error("execution failed", "error", err, "stack", string(debug.Stack()))
		}
	}()
	defer logger.LogSummary(ctx)

	res = &Result{RunID: runID}

	if err := logger.TimedOperation(ctx, "resolve_ip", func(ctx context.Context) error {
		ip, err := r.resolver.Resolve(ctx)
		res.IP = ip
		return err
	}); err != nil {
		return nil, err
	}
	if !ipresolver.IsIPv4(res.IP) {
		log.Warn("target is not an IPv4 address, the A record may reject it", "ip", res.IP)
	}

	var session contract.Session
	if err := logger.TimedOperation(ctx, "launch_browser", func(ctx context.Context) error {
		s, err := r.launcher.Launch(ctx)
		session = s
		return err
	}); err != nil {
		return nil, err
	}
	defer r.cleanup(ctx, session)

	page := session.Page()

	login := flow.NewLoginFlow(page, r.settings)
	if err := logger.TimedOperation(ctx, "login", func(ctx context.Context) error {
		return retry.Do(ctx, func(ctx context.Context, attempt int) error {
			res.LoginAttempts = attempt
			log.Info("login attempt", "attempt", attempt, "max", r.loginAttempts)
			return login.Run(ctx)
		}, retry.WithMaxAttempts(r.loginAttempts), retry.WithIsRetryable(isRetryableLogin))
	}); err != nil {
		return nil, fmt.Errorf("%w after %d attempt(s): %w", domain.ErrLoginFailed, res.LoginAttempts, err)
	}

	update := flow.NewUpdateFlow(page, r.settings)
	if err := logger.TimedOperation(ctx, "update_dns", func(ctx context.Context) error {
		outcome, err := update.Run(ctx, res.IP)
		res.Outcome = outcome
		return err
	}); err != nil {
		return nil, err
	}

	log.Info("DNS update successful", "ip", res.IP, "outcome", res.Outcome)
	r.record(ctx, res)
	return res, nil
}

func isRetryableLogin(err error) bool {
	return retry.DefaultIsRetryable(err) && !errors.Is(err, context.DeadlineExceeded)
}

// cleanup closes the session. Failures, panics included, are only logged.
func (r *Runner) cleanup(ctx context.Context, session contract.Session) {
	log := logger.FromContext(ctx)
	defer func() {
		if p := recover(); p != nil {
			log.Error("error during cleanup", "panic", p)
		}
	}()
	// A canceled run still releases the browser.
	if err := session.Close(context.WithoutCancel(ctx)); err != nil {
		log.Error("error during cleanup", "error", err)
	}
}

func (r *Runner) record(ctx context.Context, res *Result) {
	if r.store == nil {
		return
	}
	log := logger.FromContext(ctx)
	if prev, err := r.store.Load(ctx); err == nil && prev != nil && prev.IP != res.IP {
		log.Info("public IP changed since last run", "previous", prev.IP, "current", res.IP)
	}
	rec := &entity.RunRecord{
		IP:        res.IP,
		Outcome:   res.Outcome.String(),
		RunID:     res.RunID,
		UpdatedAt: r.now().UTC(),
	}
	if err := r.store.Save(ctx, rec); err != nil {
		log.Warn("could not record run state", "error", err)
	}
}
