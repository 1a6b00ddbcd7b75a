package translation

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleProvider - Google Cloud Translation (basic edition) по API ключу
type GoogleProvider struct {
	client *translate.Client
}

func NewGoogleProvider(ctx context.Context, apiKey string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("translation api key is empty")
	}
	client, err := translate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Detect(ctx context.Context, text string) (string, error) {
	detections, err := p.client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return "", err
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return "", errors.New("empty detection result")
	}

	best := detections[0][0]
	for _, d := range detections[0][1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return best.Language.String(), nil
}

func (p *GoogleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	src, err := language.Parse(source)
	if err != nil {
		return "", fmt.Errorf("invalid source language %q: %w", source, err)
	}
	dst, err := language.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", target, err)
	}

	res, err := p.client.Translate(ctx, []string{text}, dst, &translate.Options{
		Source: src,
		Format: translate.Text,
	})
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", errors.New("empty translation result")
	}
	return res[0].Text, nil
}

func (p *GoogleProvider) Close() error {
	return p.client.Close()
}
