// Package translate calls a LibreTranslate-compatible endpoint to turn
// Indonesian text into English.
//
// The client never fails outward. Any upstream problem is logged and the
// caller gets the input text back, tagged as degraded.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mnasrulloh/portfolio/internal/platform/locale"
	"github.com/mnasrulloh/portfolio/internal/platform/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultURL is the public LibreTranslate instance used when none is configured.
const DefaultURL = "https://libretranslate.de/translate"

// Outcome tags how a translation result was produced.
type Outcome int

const (
	// OutcomeSkipped means the input was blank and no call was made.
	OutcomeSkipped Outcome = iota
	// OutcomeTranslated means the upstream returned a translation.
	OutcomeTranslated
	// OutcomeDegraded means the upstream failed and the input was kept.
	OutcomeDegraded
)

// String returns a short label for logs and span attributes.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeTranslated:
		return "translated"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Result is the outcome of one translation call.
type Result struct {
	Text    string
	Outcome Outcome
	// Err describes why the result is degraded. It is informational only.
	Err error
}

// Config configures a Client.
type Config struct {
	URL    string
	APIKey string
}

// Client translates text through a LibreTranslate-compatible HTTP API.
type Client struct {
	url    string
	apiKey string
	source string
	target string
	http   *resty.Client
}

// NewClient builds a client. A nil resty client gets a fresh default one.
func NewClient(cfg Config, httpClient *resty.Client) *Client {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = resty.New()
	}
	return &Client{
		url:    url,
		apiKey: strings.TrimSpace(cfg.APIKey),
		source: locale.Key(locale.Source),
		target: locale.Key(locale.Target),
		http:   httpClient,
	}
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText *string `json:"translatedText"`
}

// TranslateText returns the translation of text, or text itself on failure.
func (c *Client) TranslateText(ctx context.Context, text string) string {
	return c.Translate(ctx, text).Text
}

// Translate makes exactly one upstream call for non-blank input.
func (c *Client) Translate(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text, Outcome: OutcomeSkipped}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := otel.Tracer("translate").Start(ctx, "translate.Text")
	defer span.End()
	span.SetAttributes(attribute.Int("translate.input_len", len(text)))

	translated, err := c.call(ctx, text)
	if err != nil {
		log.Printf("translate degraded url=%s err=%v", c.url, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation degraded")
		span.SetAttributes(attribute.String("translate.outcome", OutcomeDegraded.String()))
		return Result{Text: text, Outcome: OutcomeDegraded, Err: err}
	}
	span.SetAttributes(attribute.String("translate.outcome", OutcomeTranslated.String()))
	return Result{Text: translated, Outcome: OutcomeTranslated}
}

func (c *Client) call(ctx context.Context, text string) (string, error) {
	if c == nil || c.http == nil {
		return "", fmt.Errorf("translate client is not configured")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request{
			Q:      text,
			Source: c.source,
			Target: c.target,
			Format: "text",
			APIKey: c.apiKey,
		}).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("post: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("status %d", resp.StatusCode())
	}
	var decoded response
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.TranslatedText == nil {
		return "", fmt.Errorf("response missing translatedText")
	}
	return *decoded.TranslatedText, nil
}
