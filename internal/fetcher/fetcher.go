// Package fetcher loads announcement pages in a headless browser and distills
// their rendered DOM into plain text for inference.
package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

const (
	// defaultLoadTimeout bounds one page load
	defaultLoadTimeout = 30 * time.Second
	// defaultSettleWait lets late client-side rendering finish after load
	defaultSettleWait = 2 * time.Second
	// defaultUserAgent avoids the instant bot walls some blog platforms
	// raise for the default headless UA.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// MinViableContentLength is the smallest extracted text considered worth
// sending to inference; callers fail fast below it.
const MinViableContentLength = 50

// RawContent is the sanitized text pulled from one page
type RawContent struct {
	// Text is the extracted main content
	Text string
	// StrategyUsed records which extraction path produced Text
	StrategyUsed Strategy
	// Length is len(Text), kept explicit because callers gate on it
	Length int
}

// Fetcher drives a headless browser to acquire page content. Each Fetch call
// launches and tears down its own browser; nothing is shared across requests.
type Fetcher struct {
	loadTimeout time.Duration
	settleWait  time.Duration
	userAgent   string
}

// Option configures the Fetcher
type Option func(*Fetcher)

// WithLoadTimeout overrides the page load timeout
func WithLoadTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.loadTimeout = d
		}
	}
}

// WithSettleWait overrides the post-load settle wait
func WithSettleWait(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.settleWait = d
		}
	}
}

// WithUserAgent overrides the browser user agent
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// New creates a page fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		loadTimeout: defaultLoadTimeout,
		settleWait:  defaultSettleWait,
		userAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch loads the URL and returns its extracted main content. The browser
// session is scoped to this call and is torn down on every exit path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*RawContent, error) {
	parsed, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	html, frames, err := f.loadPage(ctx, rawURL, parsed.Hostname())
	if err != nil {
		return nil, err
	}

	content := ExtractContent(html, frames, parsed.Hostname())
	if content.Length == 0 {
		return nil, ErrEmptyContent
	}

	log.Debug().
		Str("host", parsed.Hostname()).
		Str("strategy", string(content.StrategyUsed)).
		Int("length", content.Length).
		Msg("page content extracted")

	return content, nil
}

// loadPage runs the scoped browser session and returns the rendered top
// document plus any content iframes the host's strategy asks for.
func (f *Fetcher) loadPage(ctx context.Context, rawURL, host string) (html string, frames []string, err error) {
	l := launcher.New().Headless(true).NoSandbox(true)

	controlURL, err := l.Launch()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		// The browser process is already running; reap it so a failed
		// connect cannot leave an orphaned Chromium behind.
		l.Kill()
		l.Cleanup()

		return "", nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("browser close failed")
		}

		l.Cleanup()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	page = page.Context(ctx).Timeout(f.loadTimeout)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	if err := page.Navigate(rawURL); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	if err := page.WaitLoad(); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	if f.settleWait > 0 {
		select {
		case <-ctx.Done():
			return "", nil, fmt.Errorf("%w: %w", ErrNavigation, ctx.Err())
		case <-time.After(f.settleWait):
		}
	}

	html, err = page.HTML()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	frames = f.frameHTML(page, host)

	return html, frames, nil
}

// frameHTML collects rendered HTML from content iframes when the host's
// strategy names one. Naver blogs render the whole post inside #mainFrame.
func (f *Fetcher) frameHTML(page *rod.Page, host string) []string {
	strat, ok := strategyForHost(host)
	if !ok || strat.frameSelector == "" {
		return nil
	}

	el, err := page.Element(strat.frameSelector)
	if err != nil {
		return nil
	}

	frame, err := el.Frame()
	if err != nil {
		log.Debug().Err(err).Str("selector", strat.frameSelector).Msg("iframe not accessible")
		return nil
	}

	html, err := frame.HTML()
	if err != nil {
		return nil
	}

	return []string{html}
}

// ExtractContent applies the host's extraction strategy to rendered HTML.
// frames carry iframe documents for hosts whose content lives inside one;
// the longest extraction across documents wins, matching how iframe-heavy
// blog layouts scatter the post body.
func ExtractContent(html string, frames []string, host string) *RawContent {
	strat, named := strategyForHost(host)

	var best string

	for _, document := range append([]string{html}, frames...) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
		if err != nil {
			continue
		}

		var text string
		if named {
			text = strat.extract(doc)
		} else {
			text = sanitize(doc)
		}

		if len(text) > len(best) {
			best = text
		}
	}

	strategyUsed := StrategyGeneric
	if named {
		strategyUsed = StrategyNamedSite
	}

	return &RawContent{
		Text:         best,
		StrategyUsed: strategyUsed,
		Length:       len(best),
	}
}

// validateURL checks the link is a well-formed absolute http(s) URL
func validateURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return parsed, nil
}
