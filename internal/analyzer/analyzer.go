// Package analyzer orchestrates the extraction pipeline: page acquisition,
// schema-constrained inference, output recovery, and normalization.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/heona1231/2025HciProject/internal/feedback"
	"github.com/heona1231/2025HciProject/internal/fetcher"
	"github.com/heona1231/2025HciProject/internal/inference"
	"github.com/heona1231/2025HciProject/internal/normalize"
	"github.com/heona1231/2025HciProject/internal/ocr"
	"github.com/heona1231/2025HciProject/internal/recovery"
	"github.com/heona1231/2025HciProject/internal/types"
)

// PageFetcher acquires rendered page content
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.RawContent, error)
}

// Generator runs one model inference call
type Generator interface {
	Generate(ctx context.Context, req inference.Request) (*inference.Result, error)
}

// TextExtractor recognizes text in an image
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Analyzer wires the pipeline stages together. The OCR extractor is optional;
// without it image analysis relies on the model's own vision path.
type Analyzer struct {
	fetcher   PageFetcher
	inference Generator
	ocr       TextExtractor
}

// Option configures the Analyzer
type Option func(*Analyzer)

// WithTextExtractor attaches the OCR sidecar client
func WithTextExtractor(t TextExtractor) Option {
	return func(a *Analyzer) {
		a.ocr = t
	}
}

// New creates an analyzer from its pipeline stages
func New(f PageFetcher, g Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:   f,
		inference: g,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// AnalyzeLink fetches an announcement page and extracts a structured event
// record from it.
func (a *Analyzer) AnalyzeLink(ctx context.Context, link string) (*types.EventRecord, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("%w: link is required", ErrValidation)
	}

	content, err := a.fetcher.Fetch(ctx, link)
	if err != nil {
		switch {
		case errors.Is(err, fetcher.ErrInvalidURL):
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		case errors.Is(err, fetcher.ErrEmptyContent):
			return nil, fmt.Errorf("%w: %v", ErrInsufficientContent, err)
		default:
			return nil, err
		}
	}

	if content.Length < fetcher.MinViableContentLength {
		return nil, fmt.Errorf("%w: extracted %d characters", ErrInsufficientContent, content.Length)
	}

	result, err := a.inference.Generate(ctx, inference.Request{
		Prompt: inference.EventPrompt(content.Text),
		Schema: inference.EventRecordSchema(),
	})
	if err != nil {
		return nil, err
	}

	out, err := recovery.Recover(result.Text)
	if err != nil {
		return nil, err
	}

	record, err := normalize.EventRecordFrom(out.Parsed)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("strategy", string(content.StrategyUsed)).
		Str("recovery", string(out.Recovery)).
		Int("attempts", len(result.Attempts)).
		Msg("link analysis complete")

	return record, nil
}

// AnalyzeImages extracts a goods list and benefits from announcement images.
// OCR runs per image when a sidecar is configured; an image whose recognition
// fails contributes an empty text and the model's vision path covers it.
func (a *Analyzer) AnalyzeImages(ctx context.Context, images []inference.Image) (*types.GoodsResult, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrValidation)
	}

	for i, img := range images {
		if len(img.Data) == 0 {
			return nil, fmt.Errorf("%w: image %d is empty", ErrValidation, i)
		}
	}

	texts := a.recognizeAll(ctx, images)

	result, err := a.inference.Generate(ctx, inference.Request{
		Prompt: inference.GoodsPrompt(texts),
		Images: images,
		Schema: inference.GoodsSchema(),
	})
	if err != nil {
		return nil, err
	}

	out, err := recovery.RecoverWithFallback(result.Text, func() (json.RawMessage, error) {
		return heuristicGoods(texts)
	})
	if err != nil {
		return nil, err
	}

	goods, err := normalize.GoodsResultFrom(out.Parsed)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("images", len(images)).
		Str("recovery", string(out.Recovery)).
		Int("goods", len(goods.Goods)).
		Msg("image analysis complete")

	return goods, nil
}

// SearchPastEvents finds similar past events and aggregated visitor feedback
// for an event title using the model's live web-search tool.
func (a *Analyzer) SearchPastEvents(ctx context.Context, eventTitle string) (*types.PastEventFeedback, error) {
	eventTitle = strings.TrimSpace(eventTitle)
	if eventTitle == "" {
		return nil, fmt.Errorf("%w: event_title is required", ErrValidation)
	}

	result, err := a.inference.Generate(ctx, inference.Request{
		Prompt:       inference.PastEventsPrompt(eventTitle),
		EnableSearch: true,
	})
	if err != nil {
		return nil, err
	}

	out, err := recovery.Recover(result.Text)
	if err != nil {
		return nil, err
	}

	past, err := normalize.PastEventFeedbackFrom(out.Parsed)
	if err != nil {
		return nil, err
	}

	feedback.DedupeAll(past)

	log.Info().
		Str("recovery", string(out.Recovery)).
		Int("past_events", len(past.PastEvents)).
		Msg("past event search complete")

	return past, nil
}

// recognizeAll fans OCR out across the images. A failed recognition logs and
// leaves that slot empty instead of failing the whole request.
func (a *Analyzer) recognizeAll(ctx context.Context, images []inference.Image) []string {
	texts := make([]string, len(images))

	if a.ocr == nil {
		return texts
	}

	var wg sync.WaitGroup

	for i, img := range images {
		wg.Go(func() {
			text, err := a.ocr.ExtractText(ctx, img.Data)
			if err != nil {
				log.Warn().Err(err).Int("image", i).Msg("ocr failed, continuing without text")

				return
			}

			texts[i] = text
		})
	}

	wg.Wait()

	return texts
}

// heuristicGoods synthesizes a goods document from the OCR texts when the
// model output yields no parseable JSON.
func heuristicGoods(texts []string) (json.RawMessage, error) {
	result := types.GoodsResult{
		Goods:    []types.GoodsItem{},
		Benefits: []string{},
	}

	for i, text := range texts {
		parsed := ocr.ParseHeuristic(text)

		for _, item := range parsed.Goods {
			item.SourceImageIndex = i
			result.Goods = append(result.Goods, item)
		}

		result.Benefits = append(result.Benefits, parsed.Benefits...)
	}

	result.Goods = normalize.DedupeGoods(result.Goods)
	result.Benefits = normalize.DedupeStrings(result.Benefits)

	if len(result.Goods) == 0 && len(result.Benefits) == 0 {
		return nil, errors.New("heuristic parse found nothing")
	}

	return json.Marshal(result)
}
