package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

// corsMiddleware answers preflight requests and decorates responses for
// allowed origins. An entry of "*" allows any origin and "*.example.com"
// allows its subdomains.
type corsMiddleware struct {
	allowedOrigins []string
	allowedMethods string
	allowedHeaders string
	exposedHeaders string
	maxAge         string
}

func newCORSMiddleware(allowedOrigins []string) *corsMiddleware {
	return &corsMiddleware{
		allowedOrigins: allowedOrigins,
		allowedMethods: strings.Join([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}, ", "),
		allowedHeaders: "Accept, Content-Type, Content-Length, X-Request-ID",
		exposedHeaders: "X-Request-ID",
		maxAge:         strconv.Itoa(86400),
	}
}

func (c *corsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && c.isOriginAllowed(origin)

		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Expose-Headers", c.exposedHeaders)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Methods", c.allowedMethods)
			h.Set("Access-Control-Allow-Headers", c.allowedHeaders)
			h.Set("Access-Control-Max-Age", c.maxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (c *corsMiddleware) isOriginAllowed(origin string) bool {
	for _, allowed := range c.allowedOrigins {
		switch {
		case allowed == "*", allowed == origin:
			return true
		case strings.HasPrefix(allowed, "*."):
			// keep the leading dot so "evilexample.com" does not match "*.example.com"
			if strings.HasSuffix(origin, allowed[1:]) {
				return true
			}
		}
	}
	return false
}
