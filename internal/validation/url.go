package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// BaseURLValidator checks the API base URL before any client is built.
type BaseURLValidator struct {
	// AllowLocalhost permits loopback hosts, which tests and local API
	// instances need.
	AllowLocalhost bool
	MaxLength      int
}

func NewBaseURLValidator() *BaseURLValidator {
	return &BaseURLValidator{AllowLocalhost: true, MaxLength: 2048}
}

// NewStrictBaseURLValidator rejects loopback hosts and plain http.
func NewStrictBaseURLValidator() *BaseURLValidator {
	return &BaseURLValidator{AllowLocalhost: false, MaxLength: 2048}
}

// ValidateAndNormalize returns the URL without a trailing slash so paths
// can be appended with a single "/".
func (v *BaseURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("base URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("base URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("base URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base URL must use http or https")
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("base URL must have a hostname")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("base URL must not carry a query or fragment")
	}
	if u.User != nil {
		return "", fmt.Errorf("base URL must not embed credentials")
	}

	local := isLocalhost(u.Hostname())
	if local && !v.AllowLocalhost {
		return "", fmt.Errorf("localhost base URLs are not permitted")
	}
	if !v.AllowLocalhost && u.Scheme == "http" {
		return "", fmt.Errorf("base URL must use https")
	}

	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

func isLocalhost(hostname string) bool {
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}
