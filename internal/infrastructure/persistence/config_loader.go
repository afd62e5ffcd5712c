package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
)

var ErrConfigNotLoaded = errors.New("config not loaded")

type ConfigLoader struct {
	path string
}

func NewConfigLoader(path string) *ConfigLoader {
	return &ConfigLoader{path: path}
}

// Load reads the config file, merges the optional selector override file
// and fills defaults. It does not validate, so callers can complete
// credentials first.
func (l *ConfigLoader) Load(ctx context.Context) (*entity.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := decodeFile[entity.Config](l.path)
	if err != nil {
		return nil, err
	}

	if cfg.SelectorsFile != "" {
		selPath := cfg.SelectorsFile
		if !filepath.IsAbs(selPath) {
			selPath = filepath.Join(filepath.Dir(l.path), selPath)
		}
		override, err := decodeFile[entity.Selectors](selPath)
		if err != nil {
			return nil, fmt.Errorf("selectors_file: %w", err)
		}
		cfg.Selectors = cfg.Selectors.Merge(override)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

func (l *ConfigLoader) Validate(cfg *entity.Config) error {
	if cfg == nil {
		return ErrConfigNotLoaded
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigValidateFail, err)
	}
	return nil
}

func decodeFile[T any](path string) (T, error) {
	var out T

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, fmt.Errorf("%w: %s does not exist, create it with your credentials and settings", domain.ErrConfigNotFound, path)
		}
		return out, fmt.Errorf("%w: %v", domain.ErrConfigReadFailed, err)
	}

	data, err := stripBOM(raw)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", domain.ErrConfigReadFailed, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("%w: %s: %v", domain.ErrConfigParseFailed, path, err)
		}
	default:
		if err := json.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("%w: %s: %s", domain.ErrConfigParseFailed, path, describeJSONError(data, err))
		}
	}
	return out, nil
}

// stripBOM decodes UTF-8 input with an optional byte order mark. UTF-16
// files carrying a BOM are transcoded as well.
func stripBOM(raw []byte) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(bytes.NewReader(raw), dec))
}

func describeJSONError(data []byte, err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var offset int64
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err.Error()
	}
	line, col := position(data, offset)
	return fmt.Sprintf("line %d column %d: %v", line, col, err)
}

func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
