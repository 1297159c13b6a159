package i18n

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogs_Complete(t *testing.T) {
	for l := Locale(0); l < localeCount; l++ {
		v := reflect.ValueOf(catalogs[l])
		for i := range v.NumField() {
			field := v.Type().Field(i).Name
			assert.NotEmpty(t, v.Field(i).String(), "%s: %s is empty", l, field)
		}
	}
}

func TestCatalog_Message(t *testing.T) {
	codes := []string{
		"added", "renamed", "removed", "duplicate", "unsupported_media_type",
		"size_limit_exceeded", "persistence_failed", "not_found", "invalid_name",
		"load_failed", "imported",
	}
	for l := Locale(0); l < localeCount; l++ {
		for _, code := range codes {
			assert.NotEmpty(t, For(l).Message(code), "%s: %s", l, code)
		}
	}
	assert.Empty(t, For(LocaleEN).Message("nope"))
	assert.Equal(t, For(LocaleEN), For(Locale(99)))
}

func TestMatchAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleJA},
		{"ja-JP,ja;q=0.9,en;q=0.8", LocaleJA},
		{"en-US,en;q=0.9", LocaleEN},
		{"fr-FR,ja;q=0.5", LocaleJA},
		{"!!!", LocaleJA},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchAcceptLanguage(tt.header, LocaleJA))
		})
	}
}

func TestParseLocale(t *testing.T) {
	l, ok := ParseLocale("ja")
	assert.True(t, ok)
	assert.Equal(t, LocaleJA, l)

	l, ok = ParseLocale("en-GB")
	assert.True(t, ok)
	assert.Equal(t, LocaleEN, l)

	_, ok = ParseLocale("not a tag")
	assert.False(t, ok)

	assert.Equal(t, "ja", LocaleJA.String())
	assert.Equal(t, "unknown", Locale(7).String())
}
