package auth

import (
	"net/url"
	"strings"
)

// DefaultLanding is where a login lands without a usable from parameter.
const DefaultLanding = "/dashboard"

// LoginPath is the login form route.
const LoginPath = "/auth/login"

// LoginURL builds the login URL that returns to from afterwards.
func LoginURL(from string) string {
	from = SanitizeFrom(from)
	if from == DefaultLanding {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// SanitizeFrom accepts only local absolute paths, guarding against open
// redirects such as "//evil.example" or "https://evil.example".
func SanitizeFrom(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return DefaultLanding
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultLanding
	}
	if strings.HasPrefix(u.Path, "/auth/") {
		return DefaultLanding
	}
	return from
}
