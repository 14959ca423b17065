package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// mapStoreErr normalizes provider errors into the service taxonomy. Missing
// rows become NotFound, exceeded deadlines become Timeout, anything else is
// wrapped as an opaque store failure so callers can still unwrap the cause.
func mapStoreErr(err error, resource string, details map[string]any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound(resource, details)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errorutil.NewTimeout(resource+" store call", err)
	}
	return errorutil.NewStoreError(err)
}
