package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

type ctxKey struct{}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return L()
}

func WithOperation(ctx context.Context, operation string) context.Context {
	opID := generateShortID()
	logger := FromContext(ctx).With(
		"operation", operation,
		"op_id", opID,
	)
	return ContextWithLogger(ctx, logger)
}

// WithRunID tags every record of one updater run. It returns the ID so the
// caller can print it.
func WithRunID(ctx context.Context) (context.Context, string) {
	runID := uuid.NewString()
	logger := FromContext(ctx).With("run_id", runID)
	return ContextWithLogger(ctx, logger), runID
}

func generateShortID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
