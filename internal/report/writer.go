package report

import (
	"context"
	"fmt"
	"io"

	"github.com/nikolay-makurin/pgprobe/pkg/types"
)

// Writer prints the human-readable result line.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (r *Writer) Report(_ context.Context, res types.Result) error {
	_, err := fmt.Fprintln(r.w, res.Message())
	return err
}

func (r *Writer) Close() error {
	return nil
}
