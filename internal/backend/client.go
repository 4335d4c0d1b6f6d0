// Package backend holds the thin HTTP clients for the two resource
// services. Both speak plain JSON; a non-2xx status is the only failure
// signal the console consumes, response bodies are kept for diagnostics.
package backend

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds every backend call when the config leaves the
// timeout unset. A hung call surfaces as an error, same as a refused one.
const DefaultTimeout = 10 * time.Second

func callTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func statusError(service, op string, code int) error {
	return errors.Errorf("%s service: %s returned status %d", service, op, code)
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}
