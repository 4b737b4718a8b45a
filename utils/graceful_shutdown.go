package utils

import "context"

// GracefulShutdown waits for the context to be canceled (e.g. SIGINT) and
// then runs the given cleanup functions in order.
func GracefulShutdown(ctx context.Context, cleanups ...func()) {
	<-ctx.Done()
	for _, cleanup := range cleanups {
		cleanup()
	}
}
