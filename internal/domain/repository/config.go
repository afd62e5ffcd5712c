package repository

import (
	"context"

	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
)

type ConfigLoader interface {
	Load(ctx context.Context) (*entity.Config, error)
	Validate(cfg *entity.Config) error
}
