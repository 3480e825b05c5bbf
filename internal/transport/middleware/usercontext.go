package middleware

import (
	"net/http"
	"strconv"

	internal "github.com/i4ybrid/trip-planner/internal"
)

// UserContext resolves the calling user from the X-User-ID header and
// places the ID on the request context. Identity verification happens at
// the gateway in front of this service, so the header is trusted here.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid X-User-ID header"}`))
			return
		}

		ctx := internal.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
