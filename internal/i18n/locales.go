package i18n

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
)

const DefaultLocale = "en"

// localeSet - неизменяемый набор локалей вместе с matcher для Accept-Language.
// Заменяется целиком, читатели видят либо старый, либо новый набор.
type localeSet struct {
	locales []string
	matcher language.Matcher
}

var current atomic.Pointer[localeSet]

func init() {
	current.Store(newLocaleSet([]string{"en", "ru", "th"}))
}

func newLocaleSet(locales []string) *localeSet {
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tags = append(tags, language.Make(l))
	}
	return &localeSet{locales: locales, matcher: language.NewMatcher(tags)}
}

// Supported возвращает копию списка локалей, в которые переводится пользовательский контент
func Supported() []string {
	locales := current.Load().locales
	out := make([]string, len(locales))
	copy(out, locales)
	return out
}

// Normalize приводит тег к базовому языку: "en-US" -> "en", "RU" -> "ru".
// Для нераспознанного тега возвращает пустую строку.
func Normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// IsSupported проверяет, что локаль входит в список поддерживаемых
func IsSupported(locale string) bool {
	for _, l := range current.Load().locales {
		if l == locale {
			return true
		}
	}
	return false
}

// SetSupported заменяет список поддерживаемых локалей (из конфига)
// и возвращает нормализованный список.
func SetSupported(locales []string) []string {
	// en - язык по умолчанию для Resolve, он есть всегда
	out := []string{DefaultLocale}
	seen := map[string]bool{DefaultLocale: true}
	for _, l := range locales {
		n := Normalize(l)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	current.Store(newLocaleSet(out))
	return append([]string(nil), out...)
}
