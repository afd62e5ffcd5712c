package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lite-lake/tenten-ddns/internal/application/flow"
	"github.com/lite-lake/tenten-ddns/internal/application/orchestrator"
	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
	"github.com/lite-lake/tenten-ddns/internal/domain/repository"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/browser"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/ipresolver"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/persistence"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/secrets"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/state"
)

// newLauncher is swapped in tests.
var newLauncher = func(settings entity.BrowserSettings) contract.Launcher {
	return browser.NewLauncher(settings)
}

func runUpdate(ctx context.Context, c *Context) int {
	cfg, err := loadConfig(ctx, c, true)
	if err != nil {
		reportConfigError(c, err)
		return 1
	}

	closer, err := setupLogging(c, cfg)
	if err != nil {
		fmt.Fprintf(c.Stdout, "%s %v\n", ErrorStyle.Render("Error:"), err)
		return 1
	}
	defer closer.Close()

	var resolver contract.IPResolver
	if c.IP != "" {
		resolver = ipresolver.Static(c.IP)
	} else {
		resolver = ipresolver.NewWebResolver(cfg.IPServices,
			ipresolver.WithTimeout(cfg.Automation.Timing.Resolve().IPServiceTimeout))
	}

	runner := orchestrator.NewRunner(
		resolver,
		newLauncher(cfg.BrowserSettings),
		flow.SettingsFromConfig(cfg),
		orchestrator.WithLoginAttempts(cfg.Automation.LoginAttempts),
		orchestrator.WithStateStore(state.NewFileStore(cfg.StateFile)),
	)

	res, err := runner.Run(ctx)
	if err != nil {
		logger.Error("DNS update failed", "error", err)
		fmt.Fprintf(c.Stdout, "%s %s %v\n", ErrorStyle.Render(iconFail), "DNS update failed:", err)
		return 1
	}

	fmt.Fprintf(c.Stdout, "%s DNS update successful! New IP: %s %s\n",
		SuccessStyle.Render(iconOK), TitleStyle.Render(res.IP), LabelStyle.Render("("+res.Outcome.String()+")"))
	return 0
}

// loadConfig reads the config and, when validate is set, resolves
// credential references and prompts for a missing password before
// validating.
func loadConfig(ctx context.Context, c *Context, validate bool) (*entity.Config, error) {
	var loader repository.ConfigLoader = persistence.NewConfigLoader(c.ConfigPath)
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !validate {
		return cfg, nil
	}

	if err := secrets.NewSecretResolver(filepath.Dir(c.ConfigPath)).ResolveCredentials(&cfg.Credentials); err != nil {
		return nil, err
	}
	if cfg.Credentials.Password == "" && cfg.Credentials.Username != "" && stdinIsTerminal() {
		pw, err := promptPassword(c.Stdout, cfg.Credentials.Username)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err)
		}
		cfg.Credentials.Password = pw
	}

	if err := loader.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func reportConfigError(c *Context, err error) {
	logger.Error("configuration error", "path", c.ConfigPath, "error", err)
	fmt.Fprintf(c.Stdout, "%s %v\n", ErrorStyle.Render("Configuration error:"), err)
	fmt.Fprintf(c.Stdout, "Please edit the %s file with your credentials and settings.\n", c.ConfigPath)
}

func setupLogging(c *Context, cfg *entity.Config) (io.Closer, error) {
	level, levelErr := logger.ParseLevel(cfg.Logging.Level)
	debug := os.Getenv(constants.EnvDebug) != ""
	if c.Verbose || debug {
		level = slog.LevelDebug
	}

	closer, err := logger.Init(&logger.Config{
		Level:     level,
		Format:    os.Getenv(constants.EnvLogFormat),
		Output:    c.Stderr,
		File:      cfg.Logging.File,
		AddSource: debug,
	})
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	if levelErr != nil {
		logger.Warn("unknown log level, using INFO", "level", cfg.Logging.Level)
	}
	return closer, nil
}
