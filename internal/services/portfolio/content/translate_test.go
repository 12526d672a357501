package content

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func upper() TextTranslator {
	return TextTranslatorFunc(func(_ context.Context, text string) string {
		return strings.ToUpper(text)
	})
}

func mustParse(t *testing.T, raw string) Value {
	t.Helper()
	v, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return v
}

func TestTranslateLeavesAndPassThrough(t *testing.T) {
	t.Parallel()

	tr := NewTranslator(upper())
	doc := mustParse(t, `{"title":"halo","list":["satu","dua"],"n":3,"ok":false,"none":null}`)

	got := tr.Translate(context.Background(), doc)

	if s, _ := mustLookup(t, got, "title").Str(); s != "HALO" {
		t.Fatalf("title = %q, want HALO", s)
	}
	list := mustLookup(t, got, "list")
	if s, _ := list.Index(0).Str(); s != "SATU" {
		t.Fatalf("list[0] = %q, want SATU", s)
	}
	if s, _ := list.Index(1).Str(); s != "DUA" {
		t.Fatalf("list[1] = %q, want DUA", s)
	}
	if n, _ := mustLookup(t, got, "n").Num(); n.String() != "3" {
		t.Fatalf("n = %q, want 3", n)
	}
	if b, ok := mustLookup(t, got, "ok").Boolean(); !ok || b {
		t.Fatalf("ok = %v, want false", b)
	}
	if !mustLookup(t, got, "none").IsNull() {
		t.Fatal("none should stay null")
	}
}

func TestTranslateKeepsOpaqueKeysAtAnyDepth(t *testing.T) {
	t.Parallel()

	tr := NewTranslator(upper())
	doc := mustParse(t, `{
		"imageUrl":"/Profil.jpg",
		"hero":{"imageUrl":"/hero.svg","cta":"lihat"},
		"deep":{"items":[{"link":"example.com/a","label":"tautan"}]},
		"link":{"nested":"tidak diterjemahkan","more":["x"]}
	}`)

	got := tr.Translate(context.Background(), doc)

	checks := map[string][]string{
		"/Profil.jpg":         {"imageUrl"},
		"/hero.svg":           {"hero", "imageUrl"},
		"LIHAT":               {"hero", "cta"},
		"tidak diterjemahkan": {"link", "nested"},
	}
	for want, path := range checks {
		if s, _ := mustLookup(t, got, path...).Str(); s != want {
			t.Fatalf("%v = %q, want %q", path, s, want)
		}
	}
	item := mustLookup(t, got, "deep", "items").Index(0)
	if s, _ := mustLookup(t, item, "link").Str(); s != "example.com/a" {
		t.Fatalf("deep link = %q, want verbatim", s)
	}
	if s, _ := mustLookup(t, item, "label").Str(); s != "TAUTAN" {
		t.Fatalf("deep label = %q, want TAUTAN", s)
	}
	if s, _ := mustLookup(t, got, "link", "more").Index(0).Str(); s != "x" {
		t.Fatalf("opaque subtree array = %q, want verbatim", s)
	}
}

func TestTranslatePreservesShapeOfDefaults(t *testing.T) {
	t.Parallel()

	tr := NewTranslator(upper())
	source := Defaults().Source
	got := tr.Translate(context.Background(), source)
	if err := sameShape(source, got, ""); err != "" {
		t.Fatalf("shape mismatch: %s", err)
	}
}

func TestTranslateDegradedLeafKeepsSource(t *testing.T) {
	t.Parallel()

	failing := TextTranslatorFunc(func(_ context.Context, text string) string {
		if text == "gagal" {
			return text
		}
		return "ok:" + text
	})
	tr := NewTranslator(failing)
	got := tr.Translate(context.Background(), mustParse(t, `["gagal","berhasil"]`))
	if s, _ := got.Index(0).Str(); s != "gagal" {
		t.Fatalf("failed leaf = %q, want source", s)
	}
	if s, _ := got.Index(1).Str(); s != "ok:berhasil" {
		t.Fatalf("sibling = %q, want translated", s)
	}
}

func TestTranslateRunsSiblingsConcurrentlyWithinLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(3)
	slow := TextTranslatorFunc(func(_ context.Context, text string) string {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		started.Done()
		<-release
		inFlight.Add(-1)
		return text
	})

	tr := NewTranslator(slow, WithConcurrency(3))
	done := make(chan Value, 1)
	go func() {
		done <- tr.Translate(context.Background(), mustParse(t, `{"a":["1","2"],"b":{"c":"3"}}`))
	}()

	waitOrFail(t, &started)
	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("translate did not finish")
	}
	if peak.Load() != 3 {
		t.Fatalf("peak concurrency = %d, want 3", peak.Load())
	}
}

func TestTranslateCancelledContextKeepsSource(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	tr := NewTranslator(TextTranslatorFunc(func(_ context.Context, text string) string {
		calls.Add(1)
		return "x"
	}), WithConcurrency(1))

	// Hold the only slot so leaves wait until the context expires.
	if err := tr.slots.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer tr.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	got := tr.Translate(ctx, mustParse(t, `{"a":"menunggu","b":["tetap"]}`))

	if s, _ := mustLookup(t, got, "a").Str(); s != "menunggu" {
		t.Fatalf("a = %q, want source text", s)
	}
	if s, _ := mustLookup(t, got, "b").Index(0).Str(); s != "tetap" {
		t.Fatalf("b[0] = %q, want source text", s)
	}
	if calls.Load() != 0 {
		t.Fatalf("translator called %d times, want 0", calls.Load())
	}
}

func TestIsOpaque(t *testing.T) {
	t.Parallel()

	tr := NewTranslator(nil)
	if !tr.IsOpaque("imageUrl") || !tr.IsOpaque("link") {
		t.Fatal("expected default opaque keys")
	}
	if tr.IsOpaque("name") {
		t.Fatal("name must be translated")
	}
	custom := NewTranslator(nil, WithOpaqueKeys("slug"))
	if custom.IsOpaque("link") || !custom.IsOpaque("slug") {
		t.Fatal("WithOpaqueKeys should replace the default set")
	}
}

func mustLookup(t *testing.T, v Value, path ...string) Value {
	t.Helper()
	found, ok := v.Lookup(path...)
	if !ok {
		t.Fatalf("missing path %v", path)
	}
	return found
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for concurrent leaves")
	}
}

// sameShape returns a description of the first structural difference.
func sameShape(a, b Value, path string) string {
	if a.Kind() != b.Kind() {
		return path + ": kind " + a.Kind().String() + " vs " + b.Kind().String()
	}
	switch a.Kind() {
	case KindArray:
		if a.Len() != b.Len() {
			return path + ": array length differs"
		}
		for i := 0; i < a.Len(); i++ {
			if diff := sameShape(a.Index(i), b.Index(i), path+"[]"); diff != "" {
				return diff
			}
		}
	case KindObject:
		ak, bk := a.Keys(), b.Keys()
		if strings.Join(ak, ",") != strings.Join(bk, ",") {
			return path + ": keys differ"
		}
		for _, key := range ak {
			av, _ := a.Field(key)
			bv, _ := b.Field(key)
			if diff := sameShape(av, bv, path+"."+key); diff != "" {
				return diff
			}
		}
	}
	return ""
}
