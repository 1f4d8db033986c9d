package report

import (
	"context"

	"github.com/nikolay-makurin/pgprobe/pkg/types"
)

type Reporter interface {
	Report(ctx context.Context, res types.Result) error
	Close() error
}
