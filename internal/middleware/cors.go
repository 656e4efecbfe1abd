package middleware

import (
	"net/http"
	"strings"
)

// CORS выставляет CORS-заголовки для разрешённых Origin и отвечает на preflight.
// "*" в списке разрешает любой Origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		trimmed := strings.TrimSpace(o)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
		}
		origins[trimmed] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				_, ok := origins[origin]
				if ok || allowAll {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
					h.Set("Access-Control-Allow-Headers", allowHeaders(r.Header.Get("Access-Control-Request-Headers")))
					h.Add("Vary", "Access-Control-Request-Headers")
					h.Set("Access-Control-Expose-Headers", headerRequestID)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allowHeaders отражает заголовки, запрошенные браузером в preflight;
// без запроса разрешены только базовые.
func allowHeaders(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return "Content-Type, " + headerRequestID
	}
	return requested
}
