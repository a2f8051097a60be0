package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// JobDescription fetches a posting and returns its description text. The
// platform is detected from the URL to pick selectors. When the static page
// yields too little text and a renderer is configured, the page is rendered
// in a headless browser and extracted again.
func JobDescription(ctx context.Context, urlStr string, opts *Options, logger zerolog.Logger) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	content := PlatformContentSelectors(result.Platform)
	noise := PlatformNoiseSelectors(result.Platform)

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	result.Text = text

	if ShouldUseBrowser(text) && opts.Render != nil {
		logger.Debug().Str("url", urlStr).Int("chars", len(text)).Msg("static page too short, rendering in browser")

		html, renderErr := opts.Render(ctx, urlStr, opts.Timeout, logger)
		if renderErr != nil {
			logger.Warn().Err(renderErr).Str("url", urlStr).Msg("browser rendering failed, keeping static text")
		} else if rendered, extractErr := ExtractMainText(html, content, noise...); extractErr == nil && len(rendered) > len(text) {
			result.HTML = html
			result.Text = rendered
			result.Rendered = true
		}
	}

	if result.Text == "" {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("no job description text found on %s page", result.Platform)}
	}

	logger.Info().
		Str("url", urlStr).
		Str("platform", string(result.Platform)).
		Bool("rendered", result.Rendered).
		Int("chars", len(result.Text)).
		Msg("fetched job description")
	return result, nil
}
