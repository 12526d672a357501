// Package ogimage finds the Open Graph preview image of a web page.
package ogimage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mnasrulloh/portfolio/internal/platform/otel"
	"github.com/mnasrulloh/portfolio/internal/platform/timeouts"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html/charset"
)

// UserAgent is sent with page fetches; some sites refuse unknown clients.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// maxBody caps how much of a page is scanned for meta tags.
const maxBody = 2 << 20

// patterns are tried in order; the first non-empty capture wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)property=["']og:image["'][^>]*content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)name=["']og:image["'][^>]*content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)content=["']([^"']+)["'][^>]*property=["']og:image["']`),
	regexp.MustCompile(`(?i)content=["']([^"']+)["'][^>]*name=["']og:image["']`),
	regexp.MustCompile(`(?i)property=["']og:image:url["'][^>]*content=["']([^"']+)["']`),
}

// Result is the outcome of one lookup. Found is false for every failure
// mode; Reason says which one for logs.
type Result struct {
	URL    string
	Found  bool
	Reason string
}

// Resolver fetches pages and extracts their og:image.
type Resolver struct {
	http    *resty.Client
	timeout time.Duration
}

// NewResolver builds a resolver. A non-positive timeout uses timeouts.OGFetch.
func NewResolver(httpClient *resty.Client, timeout time.Duration) *Resolver {
	if httpClient == nil {
		httpClient = resty.New()
	}
	if timeout <= 0 {
		timeout = timeouts.OGFetch
	}
	return &Resolver{http: httpClient, timeout: timeout}
}

// Resolve looks up the og:image of pageURL with the resolver's timeout.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) Result {
	return r.fetch(ctx, pageURL, r.timeout)
}

// FetchOgImage returns the absolute og:image URL of pageURL, if any.
// The timeout bounds the whole fetch; a non-positive value uses the default.
func (r *Resolver) FetchOgImage(ctx context.Context, pageURL string, timeout time.Duration) (string, bool) {
	if timeout <= 0 {
		timeout = r.timeout
	}
	res := r.fetch(ctx, pageURL, timeout)
	return res.URL, res.Found
}

func (r *Resolver) fetch(ctx context.Context, pageURL string, timeout time.Duration) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer("ogimage").Start(ctx, "ogimage.Fetch")
	defer span.End()

	res := r.lookup(ctx, pageURL, timeout)
	span.SetAttributes(
		attribute.Bool("ogimage.found", res.Found),
		attribute.String("ogimage.reason", res.Reason),
	)
	if !res.Found && res.Reason != "no_match" {
		log.Printf("og image lookup failed url=%s reason=%s", pageURL, res.Reason)
	}
	return res
}

func (r *Resolver) lookup(ctx context.Context, pageURL string, timeout time.Duration) Result {
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || base.Host == "" {
		return Result{Reason: "invalid_url"}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := r.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetDoNotParseResponse(true).
		Get(base.String())
	if err != nil {
		if ctx.Err() != nil {
			return Result{Reason: "timeout"}
		}
		return Result{Reason: "unreachable"}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return Result{Reason: fmt.Sprintf("status_%d", resp.StatusCode())}
	}

	page, err := readPage(body, resp.Header().Get("Content-Type"))
	if err != nil {
		if ctx.Err() != nil {
			return Result{Reason: "timeout"}
		}
		return Result{Reason: "read_failed"}
	}

	raw, ok := Extract(page)
	if !ok {
		return Result{Reason: "no_match"}
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return Result{Reason: "invalid_image_url"}
	}
	return Result{URL: base.ResolveReference(ref).String(), Found: true}
}

func readPage(body io.Reader, contentType string) (string, error) {
	limited := io.LimitReader(body, maxBody)
	decoded, err := charset.NewReader(limited, contentType)
	if err != nil {
		decoded = limited
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Extract returns the first non-empty og:image value found in page.
func Extract(page string) (string, bool) {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(page)
		if len(match) < 2 {
			continue
		}
		if value := strings.TrimSpace(match[1]); value != "" {
			return value, true
		}
	}
	return "", false
}
