package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
	"github.com/lite-lake/tenten-ddns/internal/domain/valueobject"
)

func newTestResolver(t *testing.T, env map[string]string) *SecretResolver {
	t.Helper()
	r := NewSecretResolver(t.TempDir())
	r.lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return r
}

func TestSecretResolver_Resolve(t *testing.T) {
	r := newTestResolver(t, map[string]string{"TENTEN_PW": "from-env", "EMPTY": ""})
	if err := os.WriteFile(filepath.Join(r.baseDir, "pw.txt"), []byte("from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(r.baseDir, "blank.txt"), []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{"literal", "plain-password", "plain-password", nil},
		{"env", "env:TENTEN_PW", "from-env", nil},
		{"env unset", "env:NOPE", "", domain.ErrMissingSecret},
		{"env empty", "env:EMPTY", "", domain.ErrMissingSecret},
		{"relative file", "file:pw.txt", "from-file", nil},
		{"missing file", "file:absent.txt", "", domain.ErrMissingSecret},
		{"blank file", "file:blank.txt", "", domain.ErrEmptyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(valueobject.ParseSecretRef(tt.ref))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSecretResolver_ResolveCredentials(t *testing.T) {
	t.Run("references", func(t *testing.T) {
		r := newTestResolver(t, map[string]string{"TENTEN_USER": "owner@example.com", "TENTEN_PW": "s3cret"})
		c := entity.Credentials{Username: "env:TENTEN_USER", Password: "env:TENTEN_PW"}
		if err := r.ResolveCredentials(&c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Username != "owner@example.com" || c.Password != "s3cret" {
			t.Errorf("credentials = %+v", c)
		}
	})

	t.Run("empty password falls back to environment", func(t *testing.T) {
		r := newTestResolver(t, map[string]string{constants.EnvPassword: "fallback"})
		c := entity.Credentials{Username: "owner@example.com"}
		if err := r.ResolveCredentials(&c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Password != "fallback" {
			t.Errorf("Password = %q, want fallback", c.Password)
		}
	})

	t.Run("empty password stays empty", func(t *testing.T) {
		r := newTestResolver(t, nil)
		c := entity.Credentials{Username: "owner@example.com"}
		if err := r.ResolveCredentials(&c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Password != "" {
			t.Errorf("Password = %q, want empty", c.Password)
		}
	})

	t.Run("unresolvable password names the field", func(t *testing.T) {
		r := newTestResolver(t, nil)
		c := entity.Credentials{Username: "u", Password: "env:NOPE"}
		err := r.ResolveCredentials(&c)
		if !errors.Is(err, domain.ErrMissingSecret) || !domain.IsConfigError(err) {
			t.Fatalf("error = %v, want missing secret config error", err)
		}
		if c.Password != "env:NOPE" {
			t.Error("credentials modified on failure")
		}
	})
}
