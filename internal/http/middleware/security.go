package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fourloop/sourceflow/internal/config"
)

// CSPDirective is one Content-Security-Policy directive with its sources
type CSPDirective struct {
	Name    string
	Sources []string
}

// ContentSecurityPolicy is an ordered list of directives
type ContentSecurityPolicy []CSPDirective

// String renders the policy as a header value
func (p ContentSecurityPolicy) String() string {
	parts := make([]string, 0, len(p))
	for _, d := range p {
		if len(d.Sources) == 0 {
			parts = append(parts, d.Name)
			continue
		}
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

// PagePolicy covers the server-rendered pages. Scripts and styles come from
// /static only, so inline event handlers never run. Forms post back to this origin.
var PagePolicy = ContentSecurityPolicy{
	{Name: "default-src", Sources: []string{"'self'"}},
	{Name: "script-src", Sources: []string{"'self'"}},
	{Name: "style-src", Sources: []string{"'self'"}},
	{Name: "img-src", Sources: []string{"'self'", "data:"}},
	{Name: "form-action", Sources: []string{"'self'"}},
	{Name: "frame-ancestors", Sources: []string{"'none'"}},
	{Name: "base-uri", Sources: []string{"'self'"}},
	{Name: "object-src", Sources: []string{"'none'"}},
}

type header struct {
	name, value string
}

// SecurityHeaders sets the configured browser security headers on every response.
// An empty security.contentSecurityPolicy applies PagePolicy; "off" sends none.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := securityHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, hv := range headers {
				h.Set(hv.name, hv.value)
			}
			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaders(cfg *config.SecurityConfig) []header {
	var headers []header
	add := func(name, value string) {
		if value != "" {
			headers = append(headers, header{name, value})
		}
	}

	if cfg.ContentTypeNosniff {
		add("X-Content-Type-Options", "nosniff")
	}
	add("X-Frame-Options", cfg.FrameOptions)

	cspHeader := "Content-Security-Policy"
	if cfg.CSPReportOnly {
		cspHeader = "Content-Security-Policy-Report-Only"
	}
	switch policy := strings.TrimSpace(cfg.ContentSecurityPolicy); policy {
	case "off":
	case "":
		add(cspHeader, PagePolicy.String())
	default:
		add(cspHeader, policy)
	}

	add("Referrer-Policy", cfg.ReferrerPolicy)
	add("Permissions-Policy", cfg.PermissionsPolicy)

	if cfg.EnableHSTS {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		add("Strict-Transport-Security", hsts)
	}

	return headers
}
