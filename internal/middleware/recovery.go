package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"hotel-backend/pkg/utils"
)

// PanicRecovery converts handler panics into a JSON 500 so one bad request
// never takes the server down mid-service.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[HTTP] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
