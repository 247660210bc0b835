// Package safelink holds the link checks shared by the reader components:
// the HTTP(S) guard that gates webpage and full-content modes, SSRF
// prevention for the full-content fetcher, and bounded body reads.
package safelink

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
)

// ErrUnsafeScheme is returned when a URL uses a non-HTTP(S) scheme.
var ErrUnsafeScheme = errors.New("safelink: only http and https schemes are allowed")

// ErrSSRF is returned when a URL targets a private or loopback address.
var ErrSSRF = errors.New("safelink: URL targets a private or loopback address")

// ErrTooLarge is returned by LimitedReadAll when the limit is exceeded.
var ErrTooLarge = errors.New("safelink: body exceeds limit")

// IsHTTP reports whether link starts with "http://" or "https://".
// The match is a literal prefix test: entry links come straight from feeds
// and anything else (urn:, mailto:, relative paths) cannot be loaded.
func IsHTTP(link string) bool {
	return strings.HasPrefix(link, "https://") || strings.HasPrefix(link, "http://")
}

// RequireHTTP checks the scheme only. It is the default validator of the
// full-content fetcher: feeds hosted on a LAN are legitimate for a desktop
// reader.
func RequireHTTP(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("safelink: invalid URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrUnsafeScheme
	}
	if u.Hostname() == "" {
		return fmt.Errorf("safelink: URL has no host")
	}
	return nil
}

// ValidateURL checks that rawURL uses http/https, has a hostname, and does
// not resolve to a private or loopback IP.
func ValidateURL(rawURL string) error {
	if err := RequireHTTP(rawURL); err != nil {
		return err
	}
	u, _ := url.Parse(rawURL)
	host := u.Hostname()

	if ip := net.ParseIP(host); ip != nil {
		if isPrivateIP(ip) {
			return ErrSSRF
		}
		return nil
	}

	addrs, err := net.LookupHost(host)
	if err != nil {
		// Unresolvable now; the fetch itself will fail with a network error.
		return nil
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && isPrivateIP(ip) {
			return ErrSSRF
		}
	}
	return nil
}

// LimitedReadAll reads at most maxBytes from r and fails with ErrTooLarge
// when more is available.
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}
	return data, nil
}

var privateNets = mustCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"fc00::/7",
)

func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, n := range privateNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func mustCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("safelink: bad CIDR " + c)
		}
		out = append(out, n)
	}
	return out
}
