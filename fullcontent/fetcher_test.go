package fullcontent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/feedview/safelink"
)

// allowAll accepts loopback httptest URLs.
func allowAll(_ string) error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const articlePage = `<!DOCTYPE html><html><head><title>Story</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>The headline</h1>
<p>This is the main content of the article. It is long enough to pass the
minimum text threshold and should be what the reader displays.</p>
<script>alert("x")</script>
</article>
<footer>Copyright footer text that is not part of the story at all.</footer>
</body></html>`

func TestFetch_Success(t *testing.T) {
	// WHAT: A 200 page yields Success with the sanitized article fragment.
	// WHY: Core full-content path.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	f := New(Config{URLValidator: allowAll, Logger: quietLogger()})
	res := f.Fetch(context.Background(), srv.URL)
	if !res.IsSuccess() {
		t.Fatalf("status: got %v (reason %q)", res.Status, res.Reason)
	}
	if !strings.Contains(res.HTML, "main content of the article") {
		t.Errorf("article text missing: %q", res.HTML)
	}
	if strings.Contains(res.HTML, "<script") {
		t.Error("script survived sanitizing")
	}
	if strings.Contains(res.HTML, "Copyright footer") || strings.Contains(res.HTML, "About") {
		t.Error("boilerplate leaked into article")
	}
}

func TestFetch_ServerError(t *testing.T) {
	// WHAT: HTTP 500 collapses to Failure(MERCURY_PARSER_FAILURE).
	// WHY: The failure taxonomy is a single opaque reason.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(Config{URLValidator: allowAll, Logger: quietLogger()})
	res := f.Fetch(context.Background(), srv.URL)
	if !res.IsFailure() {
		t.Fatalf("status: got %v, want failure", res.Status)
	}
	if res.Reason != ReasonParserFailure {
		t.Errorf("reason: got %q, want %q", res.Reason, ReasonParserFailure)
	}
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := New(Config{URLValidator: allowAll, Logger: quietLogger()})
	res := f.Fetch(context.Background(), url)
	if !res.IsFailure() || res.Reason != ReasonParserFailure {
		t.Errorf("got %+v, want parser failure", res)
	}
}

func TestFetch_NonHTTPRejected(t *testing.T) {
	// WHAT: The default validator refuses non-HTTP schemes before any I/O.
	// WHY: Only http(s) links may be fetched.
	f := New(Config{Logger: quietLogger()})
	if _, err := f.Extract(context.Background(), "urn:isbn:0451450523"); err == nil {
		t.Fatal("expected error for urn link")
	}
}

func TestFetch_SSRFValidator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	f := New(Config{URLValidator: safelink.ValidateURL, Logger: quietLogger()})
	if res := f.Fetch(context.Background(), srv.URL); !res.IsFailure() {
		t.Errorf("loopback fetch should be blocked, got %v", res.Status)
	}
}

func TestFetch_CharsetDecoding(t *testing.T) {
	// WHAT: Non-UTF-8 bodies are decoded from the Content-Type charset.
	// WHY: Many feeds still publish ISO-8859-1 pages.
	latin1 := "<html><body><article><p>Caf\xe9 cr\xe8me au lait, servi chaud dans une grande tasse le matin.</p></article></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte(latin1))
	}))
	defer srv.Close()

	f := New(Config{URLValidator: allowAll, Logger: quietLogger()})
	res := f.Fetch(context.Background(), srv.URL)
	if !res.IsSuccess() {
		t.Fatalf("status: %v", res.Status)
	}
	if !strings.Contains(res.HTML, "Café crème") {
		t.Errorf("decoded text missing: %q", res.HTML)
	}
}

func TestFetch_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><nav>menu</nav></body></html>"))
	}))
	defer srv.Close()

	f := New(Config{URLValidator: allowAll, Logger: quietLogger()})
	if res := f.Fetch(context.Background(), srv.URL); !res.IsFailure() {
		t.Errorf("empty page should fail, got %v", res.Status)
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	f := New(Config{URLValidator: allowAll, MaxBytes: 64, Logger: quietLogger()})
	if res := f.Fetch(context.Background(), srv.URL); !res.IsFailure() {
		t.Errorf("oversized body should fail, got %v", res.Status)
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	f := New(Config{URLValidator: allowAll, UserAgent: "test-agent/2", Logger: quietLogger()})
	f.Fetch(context.Background(), srv.URL)
	if got != "test-agent/2" {
		t.Errorf("User-Agent: got %q", got)
	}
}
