package i18n

import (
	"context"
	"embed"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

//go:embed *.json
var fs embed.FS

var catalogueJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultLocale is used when a key or locale is missing
const DefaultLocale = "en"

// translations stores flattened keys: "en" -> "login.title" -> "Sign in"
var (
	translations = make(map[string]map[string]string)
	mutex        sync.RWMutex
)

// Load reads every embedded <locale>.json file. Calling it again reloads.
func Load() error {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales: %w", err)
	}

	loaded := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(entry.Name(), ".json")
		content, err := fs.ReadFile(entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", entry.Name(), err)
		}

		var nested map[string]interface{}
		if err := catalogueJSON.Unmarshal(content, &nested); err != nil {
			return fmt.Errorf("failed to unmarshal locale %s: %w", entry.Name(), err)
		}

		flat := make(map[string]string)
		flatten("", nested, flat)
		loaded[lang] = flat
		log.Printf("Loaded locale: %s (%d keys)", lang, len(flat))
	}

	mutex.Lock()
	translations = loaded
	mutex.Unlock()
	return nil
}

// flatten turns nested objects into dot-notation keys
func flatten(prefix string, nested map[string]interface{}, result map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch child := v.(type) {
		case map[string]interface{}:
			flatten(key, child, result)
		case string:
			result[key] = child
		default:
			result[key] = fmt.Sprintf("%v", child)
		}
	}
}

// SupportedLocales returns the loaded locale codes, sorted
func SupportedLocales() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	out := make([]string, 0, len(translations))
	for lang := range translations {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// IsSupported reports whether lang was loaded
func IsSupported(lang string) bool {
	mutex.RLock()
	defer mutex.RUnlock()
	_, ok := translations[lang]
	return ok
}

// T translates key into the locale carried by ctx
func T(ctx context.Context, key string, args ...map[string]interface{}) string {
	return Translate(GetLocale(ctx), key, args...)
}

// Translate looks key up in lang, then in the default locale, then returns
// the key itself. {name} placeholders are filled from args.
func Translate(lang, key string, args ...map[string]interface{}) string {
	mutex.RLock()
	defer mutex.RUnlock()

	for _, candidate := range []string{lang, DefaultLocale} {
		if val, ok := translations[candidate][key]; ok {
			return format(val, args...)
		}
	}
	return key
}

func format(text string, args ...map[string]interface{}) string {
	if len(args) == 0 {
		return text
	}
	for k, v := range args[0] {
		text = strings.ReplaceAll(text, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return text
}

type contextKey string

// LocaleContextKey carries the request locale in a context.Context
const LocaleContextKey contextKey = "locale"

// WithLocale returns a context carrying lang
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, LocaleContextKey, lang)
}

// GetLocale extracts the locale set by the locale middleware
func GetLocale(ctx context.Context) string {
	if str, ok := ctx.Value(LocaleContextKey).(string); ok && str != "" {
		return str
	}
	return DefaultLocale
}
