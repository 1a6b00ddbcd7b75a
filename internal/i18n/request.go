package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

const (
	QueryParam = "lang"
	CookieName = "lang"
)

// LocaleFromRequest определяет локаль: ?lang -> cookie lang -> Accept-Language.
// Пустая строка, если ничего не подошло.
func LocaleFromRequest(r *http.Request) string {
	if l := Normalize(r.URL.Query().Get(QueryParam)); l != "" && IsSupported(l) {
		return l
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if l := Normalize(c.Value); l != "" && IsSupported(l) {
			return l
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		return MatchAcceptLanguage(header)
	}
	return ""
}

// MatchAcceptLanguage подбирает поддерживаемую локаль по заголовку Accept-Language
func MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	set := current.Load()
	_, idx, conf := set.matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	return set.locales[idx]
}
