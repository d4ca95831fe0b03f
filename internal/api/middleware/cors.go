package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/infrastructure/config"
)

// AnyOrigin in allowed_origins accepts every origin without credentials.
const AnyOrigin = "*"

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// DefaultCORSConfig allows the local report viewers to read runs and
// start jobs.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
}

// CORSConfigFromAPI takes the origins from the api section of the config
// file, keeping the defaults when none are listed.
func CORSConfigFromAPI(api config.APIConfig) CORSConfig {
	cfg := DefaultCORSConfig()
	if len(api.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = slices.Clone(api.AllowedOrigins)
	}
	return cfg
}

// CORS returns middleware that handles CORS headers. Preflight requests
// from origins that are not allowed get 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool)
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[strings.TrimSuffix(origin, "/")] = true
	}
	anyOrigin := allowedOrigins[AnyOrigin]

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			allowed := origin != "" && (anyOrigin || allowedOrigins[origin])
			if allowed {
				if anyOrigin {
					w.Header().Set("Access-Control-Allow-Origin", AnyOrigin)
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
			}

			if r.Method == http.MethodOptions {
				if origin != "" && !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
