package content

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Document is the bilingual site copy: the authored Indonesian source and its
// English mirror.
type Document struct {
	Source     Value
	Translated Value
}

var (
	defaultsOnce sync.Once
	defaults     Document
	defaultsErr  error
)

// Defaults returns the built-in bilingual document used to seed an empty
// store and to replace locales that no longer parse.
func Defaults() Document {
	defaultsOnce.Do(func() {
		defaults, defaultsErr = loadDefaults()
	})
	if defaultsErr != nil {
		// The files are embedded at build time; a failure is a programming error.
		panic(defaultsErr)
	}
	return defaults
}

// ParseOr decodes raw JSON, falling back when it is empty or malformed.
func ParseOr(raw string, fallback Value) (Value, bool) {
	if raw == "" {
		return fallback, false
	}
	parsed, err := Parse([]byte(raw))
	if err != nil {
		return fallback, false
	}
	return parsed, true
}

func loadDefaults() (Document, error) {
	source, err := loadYAML("defaults/id.yaml")
	if err != nil {
		return Document{}, err
	}
	translated, err := loadYAML("defaults/en.yaml")
	if err != nil {
		return Document{}, err
	}
	return Document{Source: source, Translated: translated}, nil
}

func loadYAML(name string) (Value, error) {
	data, err := defaultsFS.ReadFile(name)
	if err != nil {
		return Value{}, fmt.Errorf("read %s: %w", name, err)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("parse %s: %w", name, err)
	}
	value, err := FromAny(raw)
	if err != nil {
		return Value{}, fmt.Errorf("convert %s: %w", name, err)
	}
	if value.Kind() != KindObject {
		return Value{}, fmt.Errorf("%s: document must be an object, got %s", name, value.Kind())
	}
	return value, nil
}
