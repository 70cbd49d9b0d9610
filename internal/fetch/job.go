package fetch

import (
	"context"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/logging"
)

// JobFetcher turns a job posting URL into plain text. Pages whose extracted text is too short
// are re-rendered with Browser when one is configured.
type JobFetcher struct {
	Options *Options
	Browser Renderer
	Cache   *Cache
}

// NewJobFetcher returns a fetcher with default HTTP options and no browser fallback.
func NewJobFetcher(cache *Cache) *JobFetcher {
	return &JobFetcher{Options: DefaultOptions(), Cache: cache}
}

// FetchJobDescription returns the posting text at jobURL.
func (f *JobFetcher) FetchJobDescription(ctx context.Context, jobURL string) (string, error) {
	jobURL = strings.TrimSpace(jobURL)
	if f.Cache != nil {
		if text, ok := f.Cache.Get(ctx, jobURL); ok {
			return text, nil
		}
	}

	log := logging.FromContext(ctx)
	platform := DetectPlatform(jobURL)

	page, err := URL(ctx, jobURL, f.Options)
	var text string
	if err == nil {
		text, err = ExtractMainText(page.HTML, ContentSelectors(platform), NoiseSelectors(platform)...)
	}

	if f.Browser != nil && (err != nil || ShouldUseBrowser(text)) {
		log.Info("falling back to headless browser", "url", jobURL, "platform", platform, "chars", len(text))
		rendered, renderErr := renderAndExtract(ctx, f.Browser, jobURL, platform)
		if renderErr == nil && len(rendered) > len(text) {
			text, err = rendered, nil
		} else if err != nil && renderErr != nil {
			return "", renderErr
		}
	}
	if err != nil {
		return "", err
	}

	if f.Cache != nil && text != "" {
		f.Cache.Set(ctx, jobURL, text)
	}
	return text, nil
}
