package safelink

import (
	"errors"
	"strings"
	"testing"
)

func TestIsHTTP(t *testing.T) {
	// WHAT: Only literal http:// and https:// prefixes qualify.
	// WHY: Webpage and full-content modes are gated on this check.
	ok := []string{"http://example.com", "https://example.com/a?b=c"}
	for _, l := range ok {
		if !IsHTTP(l) {
			t.Errorf("IsHTTP(%q) = false", l)
		}
	}
	bad := []string{"urn:isbn:0451450523", "mailto:a@b.c", "ftp://x", "/relative", "", "HTTP://EXAMPLE.COM"}
	for _, l := range bad {
		if IsHTTP(l) {
			t.Errorf("IsHTTP(%q) = true", l)
		}
	}
}

func TestRequireHTTP(t *testing.T) {
	if err := RequireHTTP("https://example.com"); err != nil {
		t.Errorf("https: %v", err)
	}
	if err := RequireHTTP("file:///etc/passwd"); !errors.Is(err, ErrUnsafeScheme) {
		t.Errorf("file scheme: got %v, want ErrUnsafeScheme", err)
	}
	if err := RequireHTTP("http://"); err == nil {
		t.Error("empty host should fail")
	}
}

func TestValidateURL_PrivateIP(t *testing.T) {
	// WHAT: Literal private and loopback IPs are rejected.
	// WHY: SSRF guard when fetch.block_private is enabled.
	for _, u := range []string{"http://127.0.0.1/", "http://10.1.2.3/x", "http://192.168.1.1", "http://[::1]/"} {
		if err := ValidateURL(u); !errors.Is(err, ErrSSRF) {
			t.Errorf("ValidateURL(%q) = %v, want ErrSSRF", u, err)
		}
	}
	if err := ValidateURL("http://93.184.216.34/"); err != nil {
		t.Errorf("public IP: %v", err)
	}
}

func TestLimitedReadAll(t *testing.T) {
	data, err := LimitedReadAll(strings.NewReader("hello"), 5)
	if err != nil || string(data) != "hello" {
		t.Fatalf("at limit: %q, %v", data, err)
	}
	if _, err := LimitedReadAll(strings.NewReader("hello!"), 5); !errors.Is(err, ErrTooLarge) {
		t.Errorf("over limit: got %v, want ErrTooLarge", err)
	}
}
