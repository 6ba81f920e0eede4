package repositories

import (
	"context"
	"errors"

	"github.com/diewo77/go-society/internal/apperr"
)

// WithRetry runs fn until it succeeds, fails with anything other than a
// row_version conflict, or maxRetries attempts are used up. fn must re-read
// the rows it mutates on every attempt; a retried allocation then sees the
// winner's write and reports the real conflict.
func WithRetry(ctx context.Context, maxRetries int, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if !errors.Is(err, apperr.ErrRowVersionConflict) {
			return err
		}
	}
	return apperr.Conflict(apperr.CodeRowVersionConflict, "the record was modified concurrently, please retry")
}
