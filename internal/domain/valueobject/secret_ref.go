package valueobject

import (
	"log/slog"
	"strings"
)

type SecretSource int

const (
	SecretLiteral SecretSource = iota
	SecretEnv
	SecretFile
)

const (
	envPrefix  = "env:"
	filePrefix = "file:"
)

// SecretRef is a credential value as written in the config. "env:NAME"
// points at an environment variable, "file:PATH" at a file; anything else
// is the secret itself.
type SecretRef struct {
	Source SecretSource
	Value  string
}

func ParseSecretRef(s string) SecretRef {
	switch {
	case strings.HasPrefix(s, envPrefix):
		return SecretRef{Source: SecretEnv, Value: strings.TrimSpace(s[len(envPrefix):])}
	case strings.HasPrefix(s, filePrefix):
		return SecretRef{Source: SecretFile, Value: strings.TrimSpace(s[len(filePrefix):])}
	}
	return SecretRef{Source: SecretLiteral, Value: s}
}

func (r SecretRef) IsEmpty() bool {
	return r.Value == ""
}

// LogValue masks literal secrets. References are safe to show.
func (r SecretRef) LogValue() slog.Value {
	switch r.Source {
	case SecretEnv:
		return slog.StringValue(envPrefix + r.Value)
	case SecretFile:
		return slog.StringValue(filePrefix + r.Value)
	}
	return slog.StringValue("***")
}
