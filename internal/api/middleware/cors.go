package middleware

import "net/http"

// CORS is a middleware that adds CORS headers for the admin frontend
type CORS struct {
	allowedOrigin string
}

// NewCORS creates a new CORS middleware. An empty origin allows any.
func NewCORS(allowedOrigin string) *CORS {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &CORS{allowedOrigin: allowedOrigin}
}

// Handle wraps an HTTP handler with CORS support
func (c *CORS) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", c.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
