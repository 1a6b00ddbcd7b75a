package translation

import "context"

// Provider - внешний API перевода и определения языка
type Provider interface {
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, source, target string) (string, error)
}
