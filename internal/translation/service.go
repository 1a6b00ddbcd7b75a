package translation

import (
	"context"
	"strings"
	"time"

	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Content - результат перевода пользовательского текста
type Content struct {
	OriginalLanguage string
	Translated       map[string]string
}

// Service раскладывает текст по всем поддерживаемым локалям.
// provider == nil означает, что перевод не настроен.
type Service struct {
	provider Provider
	locales  []string
	timeout  time.Duration
}

type Option func(*Service)

// WithLocales задает целевые локали (по умолчанию i18n.Supported())
func WithLocales(locales []string) Option {
	return func(s *Service) {
		s.locales = locales
	}
}

// WithTimeout ограничивает время одного вызова провайдера
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		locales:  i18n.Supported(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Configured() bool {
	return s != nil && s.provider != nil
}

func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// DetectLanguage никогда не возвращает ошибку: при любой проблеме - "en"
func (s *Service) DetectLanguage(ctx context.Context, text string) string {
	if !s.Configured() || strings.TrimSpace(text) == "" {
		return i18n.DefaultLocale
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	tag, err := s.provider.Detect(callCtx, text)
	if err != nil {
		logger.CtxWarn(ctx, "language detection failed, falling back to default", "error", err.Error())
		return i18n.DefaultLocale
	}
	locale := i18n.Normalize(tag)
	if locale == "" {
		logger.CtxWarn(ctx, "language detection returned unusable tag", "tag", tag)
		return i18n.DefaultLocale
	}
	return locale
}

// TranslateToAll переводит text со source на все остальные локали.
// Исходная локаль получает текст как есть; упавшая локаль - тоже исходный текст.
func (s *Service) TranslateToAll(ctx context.Context, text, source string) map[string]string {
	result := map[string]string{source: text}
	if !s.Configured() || strings.TrimSpace(text) == "" {
		return result
	}

	targets := make([]string, 0, len(s.locales))
	for _, l := range s.locales {
		if l != source {
			targets = append(targets, l)
		}
	}
	translated := make([]string, len(targets))

	var g errgroup.Group
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			callCtx, cancel := s.callCtx(ctx)
			defer cancel()

			out, err := s.provider.Translate(callCtx, text, source, target)
			if err != nil || out == "" {
				if err != nil {
					logger.CtxWarn(ctx, "translation failed, keeping original text",
						"source", source, "target", target, "error", err.Error())
				}
				translated[i] = text
				return nil
			}
			translated[i] = out
			return nil
		})
	}
	_ = g.Wait() // горутины не возвращают ошибок

	for i, target := range targets {
		result[target] = translated[i]
	}
	return result
}

// TranslateContent - единственная точка входа для мутирующих сервисов
func (s *Service) TranslateContent(ctx context.Context, text string) Content {
	source := s.DetectLanguage(ctx, text)
	return Content{
		OriginalLanguage: source,
		Translated:       s.TranslateToAll(ctx, text, source),
	}
}
