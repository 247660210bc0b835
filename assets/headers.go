package assets

import "net/http"

// HeaderConfig defines the security headers applied to every response.
type HeaderConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
}

// DefaultHeaders locks the template page down: only its own script runs,
// article images may come from anywhere, and nothing can be embedded or
// posted.
func DefaultHeaders() HeaderConfig {
	return HeaderConfig{
		CSP: "default-src 'none'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
			"img-src * data:; media-src *; font-src * data:; form-action 'none'; " +
			"frame-ancestors 'none'; base-uri http: https:",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "no-referrer",
		PermissionsPolicy:   "camera=(), microphone=(), geolocation=(), autoplay=()",
	}
}

// SecurityHeaders returns middleware that sets cfg on every response.
func SecurityHeaders(cfg HeaderConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range map[string]string{
				"Content-Security-Policy": cfg.CSP,
				"X-Frame-Options":         cfg.XFrameOptions,
				"X-Content-Type-Options":  cfg.XContentTypeOptions,
				"Referrer-Policy":         cfg.ReferrerPolicy,
				"Permissions-Policy":      cfg.PermissionsPolicy,
			} {
				if v != "" {
					h.Set(k, v)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
