package i18n

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func restoreDefaultLocales(t *testing.T) {
	t.Cleanup(func() { SetSupported([]string{"en", "ru", "th"}) })
}

func TestSetSupported_NormalizesAndKeepsEnglish(t *testing.T) {
	restoreDefaultLocales(t)

	got := SetSupported([]string{"ru-RU", "th", "RU", "%%"})

	assert.Equal(t, []string{"en", "ru", "th"}, got)
	assert.Equal(t, got, Supported())
	assert.True(t, IsSupported("en"))
	assert.False(t, IsSupported("ru-RU"))
	assert.Equal(t, "th", MatchAcceptLanguage("th-TH"))
}

func TestSupported_ReturnsCopy(t *testing.T) {
	restoreDefaultLocales(t)
	SetSupported([]string{"ru"})

	locales := Supported()
	locales[0] = "xx"

	assert.Equal(t, []string{"en", "ru"}, Supported())
}

// Набор меняется целиком: читатель не должен увидеть matcher от одного набора
// и список от другого (go test -race).
func TestSetSupported_ConcurrentReaders(t *testing.T) {
	restoreDefaultLocales(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				SetSupported([]string{"ru", "th"})
			} else {
				SetSupported([]string{"th"})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.True(t, IsSupported("en"))
				assert.Equal(t, "th", MatchAcceptLanguage("th"))
				assert.Contains(t, Supported(), "th")
			}
		}()
	}
	wg.Wait()
}
