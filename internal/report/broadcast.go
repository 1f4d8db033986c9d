package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolay-makurin/pgprobe/pkg/types"
)

// Broadcast hands one result to several reporters in order.
// Every reporter runs even if an earlier one failed.
type Broadcast struct {
	reporters []Reporter
}

func NewBroadcast(reporters ...Reporter) *Broadcast {
	return &Broadcast{reporters: reporters}
}

func (b *Broadcast) Report(ctx context.Context, res types.Result) error {
	var errs []error
	for i, r := range b.reporters {
		if err := r.Report(ctx, res); err != nil {
			errs = append(errs, fmt.Errorf("reporter %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Broadcast) Close() error {
	var errs []error
	for _, r := range b.reporters {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
