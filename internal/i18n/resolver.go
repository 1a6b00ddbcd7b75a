package i18n

// Resolve выбирает текст для зрителя: m[viewer] -> m["en"] -> original.
// Пустые строки в карте считаются отсутствующими.
func Resolve(m map[string]string, original, viewer string) string {
	if len(m) == 0 {
		return original
	}
	if s := m[viewer]; s != "" {
		return s
	}
	if s := m[DefaultLocale]; s != "" {
		return s
	}
	return original
}
