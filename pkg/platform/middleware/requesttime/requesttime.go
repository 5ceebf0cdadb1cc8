// Package requesttime stamps every request with a single operation time so all
// work done for one request agrees on "now".
package requesttime

import (
	"net/http"
	"time"

	"exposure/pkg/requestcontext"
)

// Middleware stores the request start time and, when given, the trigger in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Trigger marks requests handled by next as started by trigger.
func Trigger(trigger string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTrigger(r.Context(), trigger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
