package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
	"github.com/lite-lake/tenten-ddns/internal/domain/valueobject"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

// SecretResolver expands env: and file: references in credentials.
// Relative file paths are taken from baseDir, normally the config's
// directory.
type SecretResolver struct {
	baseDir   string
	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
}

func NewSecretResolver(baseDir string) *SecretResolver {
	return &SecretResolver{
		baseDir:   baseDir,
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
	}
}

func (r *SecretResolver) Resolve(ref valueobject.SecretRef) (string, error) {
	switch ref.Source {
	case valueobject.SecretEnv:
		val, ok := r.lookupEnv(ref.Value)
		if !ok || val == "" {
			return "", fmt.Errorf("%w: environment variable %s is not set", domain.ErrMissingSecret, ref.Value)
		}
		return val, nil
	case valueobject.SecretFile:
		path := ref.Value
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		data, err := r.readFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrMissingSecret, err)
		}
		val := strings.TrimRight(string(data), "\r\n")
		if val == "" {
			return "", fmt.Errorf("%w: %s", domain.ErrEmptyValue, path)
		}
		return val, nil
	}
	return ref.Value, nil
}

// ResolveCredentials replaces references in c with their values. An empty
// password is taken from TENTEN_DDNS_PASSWORD when that is set.
func (r *SecretResolver) ResolveCredentials(c *entity.Credentials) error {
	username, err := r.Resolve(valueobject.ParseSecretRef(c.Username))
	if err != nil {
		return fmt.Errorf("credentials.username: %w", err)
	}
	c.Username = username

	ref := valueobject.ParseSecretRef(c.Password)
	if ref.IsEmpty() {
		if val, ok := r.lookupEnv(constants.EnvPassword); ok && val != "" {
			c.Password = val
			logger.Debug("password taken from environment", "variable", constants.EnvPassword)
		}
		return nil
	}

	password, err := r.Resolve(ref)
	if err != nil {
		return fmt.Errorf("credentials.password: %w", err)
	}
	logger.Debug("password resolved", "ref", ref)
	c.Password = password
	return nil
}
