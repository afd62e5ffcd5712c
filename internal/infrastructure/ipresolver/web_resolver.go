package ipresolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

// maxBodySize bounds how much of an echo response is read.
const maxBodySize = 256

// WebResolver asks plain-text IP echo services for the caller's address.
// Services are tried strictly in order and the first 200 response carrying
// a parseable address wins. There is no retry and no caching.
type WebResolver struct {
	services   []string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*WebResolver)

func WithHTTPClient(c *http.Client) Option {
	return func(r *WebResolver) { r.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(r *WebResolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewWebResolver(services []string, opts ...Option) *WebResolver {
	r := &WebResolver{
		services:   append([]string(nil), services...),
		httpClient: http.DefaultClient,
		timeout:    domain.DefaultIPServiceTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *WebResolver) Resolve(ctx context.Context) (string, error) {
	if len(r.services) == 0 {
		return "", fmt.Errorf("%w: no IP services configured", domain.ErrIPResolveFailed)
	}

	log := logger.FromContext(ctx)
	var errs []error
	for _, svc := range r.services {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ip, err := r.lookup(ctx, svc)
		if err != nil {
			log.Warn("IP service failed", "service", svc, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", svc, err))
			continue
		}
		log.Info("current public IP", "ip", ip, "service", svc)
		return ip, nil
	}
	return "", fmt.Errorf("%w: %w", domain.ErrIPResolveFailed, errors.Join(errs...))
}

func (r *WebResolver) lookup(ctx context.Context, service string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, service, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http request returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	text := strings.TrimSpace(string(body))
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidIP, text)
	}
	return addr.Unmap().String(), nil
}
