package content

import (
	"context"
	"sync"

	"github.com/mnasrulloh/portfolio/internal/platform/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency caps in-flight leaf translations for one document.
const DefaultConcurrency = 8

// DefaultOpaqueKeys are the field names copied verbatim across locales.
var DefaultOpaqueKeys = []string{"imageUrl", "link"}

// TextTranslator translates one string. Implementations never fail: on any
// upstream problem they hand back the input.
type TextTranslator interface {
	TranslateText(ctx context.Context, text string) string
}

// TextTranslatorFunc adapts a function to TextTranslator.
type TextTranslatorFunc func(ctx context.Context, text string) string

// TranslateText calls f.
func (f TextTranslatorFunc) TranslateText(ctx context.Context, text string) string {
	return f(ctx, text)
}

// Translator derives a translated mirror of a document leaf by leaf.
type Translator struct {
	text   TextTranslator
	opaque map[string]struct{}
	slots  *semaphore.Weighted
}

// TranslatorOption customizes a Translator.
type TranslatorOption func(*Translator)

// WithOpaqueKeys replaces the set of field names that are never translated.
func WithOpaqueKeys(keys ...string) TranslatorOption {
	return func(t *Translator) {
		t.opaque = make(map[string]struct{}, len(keys))
		for _, key := range keys {
			t.opaque[key] = struct{}{}
		}
	}
}

// WithConcurrency bounds how many leaves are translated at once.
func WithConcurrency(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.slots = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewTranslator builds a document translator over a text translator.
func NewTranslator(text TextTranslator, options ...TranslatorOption) *Translator {
	t := &Translator{text: text}
	WithOpaqueKeys(DefaultOpaqueKeys...)(t)
	WithConcurrency(DefaultConcurrency)(t)
	for _, option := range options {
		if option != nil {
			option(t)
		}
	}
	return t
}

// IsOpaque reports whether values under key are copied verbatim.
// The match is on the bare key name wherever it appears in the document.
func (t *Translator) IsOpaque(key string) bool {
	_, ok := t.opaque[key]
	return ok
}

// Translate returns a structurally identical copy of doc with every string
// leaf translated, except values under opaque keys.
//
// Siblings are translated concurrently and a failed leaf keeps its source
// text, so one bad call never affects the others.
func (t *Translator) Translate(ctx context.Context, doc Value) Value {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer("content").Start(ctx, "content.Translate")
	defer span.End()

	var leaves leafCounter
	out := t.walk(ctx, doc, &leaves)
	span.SetAttributes(attribute.Int("content.leaves", leaves.count()))
	return out
}

func (t *Translator) walk(ctx context.Context, v Value, leaves *leafCounter) Value {
	switch v.kind {
	case KindString:
		leaves.add()
		return String(t.leaf(ctx, v.str))
	case KindArray:
		out := make([]Value, len(v.arr))
		var group errgroup.Group
		for i, item := range v.arr {
			group.Go(func() error {
				out[i] = t.walk(ctx, item, leaves)
				return nil
			})
		}
		_ = group.Wait()
		return Value{kind: KindArray, arr: out}
	case KindObject:
		out := make(map[string]Value, len(v.obj))
		var mu sync.Mutex
		var group errgroup.Group
		for key, item := range v.obj {
			if t.IsOpaque(key) {
				mu.Lock()
				out[key] = item
				mu.Unlock()
				continue
			}
			group.Go(func() error {
				translated := t.walk(ctx, item, leaves)
				mu.Lock()
				out[key] = translated
				mu.Unlock()
				return nil
			})
		}
		_ = group.Wait()
		return Value{kind: KindObject, obj: out}
	default:
		return v
	}
}

// leaf translates one string while holding a concurrency slot. Only leaves
// take slots, so nested arrays and objects cannot starve each other.
func (t *Translator) leaf(ctx context.Context, text string) string {
	if t.text == nil {
		return text
	}
	if t.slots != nil {
		if err := t.slots.Acquire(ctx, 1); err != nil {
			return text
		}
		defer t.slots.Release(1)
	}
	return t.text.TranslateText(ctx, text)
}

type leafCounter struct {
	mu sync.Mutex
	n  int
}

func (c *leafCounter) add() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *leafCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
