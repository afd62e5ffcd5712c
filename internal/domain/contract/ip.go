package contract

import "context"

type IPResolver interface {
	Resolve(ctx context.Context) (string, error)
}
