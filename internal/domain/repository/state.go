package repository

import (
	"context"

	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
)

// StateRepository keeps the outcome of the last successful run. Load
// returns (nil, nil) before the first one.
type StateRepository interface {
	Load(ctx context.Context) (*entity.RunRecord, error)
	Save(ctx context.Context, record *entity.RunRecord) error
}
