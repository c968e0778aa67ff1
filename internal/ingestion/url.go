package ingestion

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the posting page cannot be fetched
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// Content is the cleaned output of ingesting one posting page.
type Content struct {
	Text     string    // cleaned plain text, used for language and keyword detection
	Markdown string    // markdown rendering of the main content, used for LLM extraction
	Meta     *Metadata
}

// IngestFromURL fetches a posting page, extracts its main content, and
// returns cleaned text plus metadata. Platform detection picks selectors
// suited to the job board. When useBrowser is set, pages that come back
// nearly empty (JavaScript-rendered SPAs) are re-fetched through a headless
// browser and the richer render replaces the cached page.
func IngestFromURL(ctx context.Context, fetcher *fetch.CachedFetcher, urlStr string, useBrowser bool) (*Content, error) {
	platform := fetch.DetectPlatform(urlStr)
	log.Debug().Str("url", urlStr).Str("platform", string(platform)).Msg("ingesting posting")

	result, err := fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	html := result.HTML
	textContent, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	// Browser fallback for SPA pages that render client-side
	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		log.Debug().
			Int("chars", len(textContent)).
			Int("min", fetch.MinContentLength).
			Msg("content too short, falling back to browser rendering")

		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr)
		if browserErr != nil {
			// Keep the HTTP content if the browser path fails
			log.Warn().Err(browserErr).Str("url", urlStr).Msg("browser rendering failed, using HTTP content")
		} else {
			rendered, renderErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if renderErr == nil && len(rendered) > len(textContent) {
				html = browserHTML
				textContent = rendered
				result.HTML = browserHTML
				result.Text = rendered
				if storeErr := fetcher.Store(ctx, urlStr, result.Result); storeErr != nil {
					log.Warn().Err(storeErr).Msg("failed to cache browser-rendered page")
				}
			}
		}
	}

	cleanedText := CleanText(textContent)

	// Markdown keeps the posting's structure for the extraction prompt
	markdown := ""
	if contentHTML, htmlErr := ContentHTML(html, contentSelectors, noiseSelectors...); htmlErr == nil {
		markdown = ToMarkdown(contentHTML)
	}
	if markdown == "" {
		markdown = cleanedText
	}

	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)
	metadata.FillPageMeta(html)

	log.Debug().
		Int("text_chars", len(cleanedText)).
		Int("markdown_chars", len(markdown)).
		Str("logo", metadata.LogoURL).
		Msg("ingestion complete")

	return &Content{
		Text:     cleanedText,
		Markdown: markdown,
		Meta:     metadata,
	}, nil
}
