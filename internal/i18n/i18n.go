// Package i18n holds the user-facing message catalogs.
package i18n

import (
	"golang.org/x/text/language"
)

// Locale identifies a supported catalog.
type Locale int

const (
	LocaleEN Locale = iota
	LocaleJA
	localeCount
)

// tags is ordered by Locale; the first entry is the matcher fallback.
var tags = [localeCount]language.Tag{
	LocaleEN: language.English,
	LocaleJA: language.Japanese,
}

var matcher = language.NewMatcher(tags[:])

// String returns the BCP 47 tag.
func (l Locale) String() string {
	if l < 0 || l >= localeCount {
		return "unknown"
	}
	return tags[l].String()
}

// ParseLocale parses a language tag such as "ja" or "en-US" into the closest
// supported locale.
func ParseLocale(s string) (Locale, bool) {
	tag, err := language.Parse(s)
	if err != nil {
		return LocaleEN, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return LocaleEN, false
	}
	return Locale(idx), true
}

// MatchAcceptLanguage picks the locale for an Accept-Language header,
// falling back to def.
func MatchAcceptLanguage(header string, def Locale) Locale {
	if header == "" {
		return def
	}
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return def
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return def
	}
	return Locale(idx)
}

// Catalog is the set of messages for one locale.
type Catalog struct {
	VideoAdded           string
	VideoRenamed         string
	VideoRemoved         string
	Duplicate            string
	UnsupportedMediaType string
	SizeLimitExceeded    string
	PersistenceFailed    string
	NotFound             string
	InvalidName          string
	LoadFailed           string
	ImportedFromFolder   string
}

var catalogs = [localeCount]Catalog{
	LocaleEN: {
		VideoAdded:           "Video added to the library.",
		VideoRenamed:         "Video renamed.",
		VideoRemoved:         "Video removed from the library.",
		Duplicate:            "This video is already in the library.",
		UnsupportedMediaType: "This file is not a supported video.",
		SizeLimitExceeded:    "This file is too large.",
		PersistenceFailed:    "The video could not be saved. Please try again.",
		NotFound:             "The video no longer exists.",
		InvalidName:          "Please enter a name.",
		LoadFailed:           "The video could not be played.",
		ImportedFromFolder:   "Video imported from the watch folder.",
	},
	LocaleJA: {
		VideoAdded:           "動画をライブラリに追加しました。",
		VideoRenamed:         "動画の名前を変更しました。",
		VideoRemoved:         "動画をライブラリから削除しました。",
		Duplicate:            "この動画はすでにライブラリにあります。",
		UnsupportedMediaType: "対応していない動画形式です。",
		SizeLimitExceeded:    "ファイルサイズが大きすぎます。",
		PersistenceFailed:    "動画を保存できませんでした。もう一度お試しください。",
		NotFound:             "この動画はすでに存在しません。",
		InvalidName:          "名前を入力してください。",
		LoadFailed:           "動画を再生できませんでした。",
		ImportedFromFolder:   "監視フォルダから動画を取り込みました。",
	},
}

// For returns the catalog of the locale. Unknown locales get English.
func For(l Locale) *Catalog {
	if l < 0 || l >= localeCount {
		l = LocaleEN
	}
	return &catalogs[l]
}

// Message returns the message for a result code such as "duplicate" or
// "persistence_failed". Unknown codes return "".
func (c *Catalog) Message(code string) string {
	switch code {
	case "added":
		return c.VideoAdded
	case "renamed":
		return c.VideoRenamed
	case "removed":
		return c.VideoRemoved
	case "duplicate":
		return c.Duplicate
	case "unsupported_media_type":
		return c.UnsupportedMediaType
	case "size_limit_exceeded":
		return c.SizeLimitExceeded
	case "persistence_failed":
		return c.PersistenceFailed
	case "not_found":
		return c.NotFound
	case "invalid_name":
		return c.InvalidName
	case "load_failed":
		return c.LoadFailed
	case "imported":
		return c.ImportedFromFolder
	default:
		return ""
	}
}
