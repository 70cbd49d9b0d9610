package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known job board.
type Platform string

// Known job boards.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description"},
		noise:    []string{".apply-section", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
		noise:    []string{"[data-automation-id='applyButton']"},
	},
	{
		platform: PlatformLinkedIn,
		hosts:    []string{"linkedin.com"},
		content:  []string{".show-more-less-html__markup", ".description__text"},
		noise:    []string{".sign-in-modal", ".join-form"},
	},
}

// commonNoise is removed from every job page.
var commonNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container",
	".eeo-statement", ".eeo-section", ".social-share", ".share-buttons", ".cookie-consent",
}

// genericContent is tried for unknown boards and after platform selectors.
var genericContent = []string{
	".job-description", ".job-content", "#job-description", "#job-content",
	".posting-content", ".job-details", "[data-testid='job-description']",
	"main", "article", ".content", "#content",
}

// DetectPlatform identifies the job board behind rawURL.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, rule := range platformRules {
		for _, h := range rule.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return rule.platform
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors tried, in order, to find the posting body.
func ContentSelectors(platform Platform) []string {
	for _, rule := range platformRules {
		if rule.platform == platform {
			return append(append([]string{}, rule.content...), genericContent...)
		}
	}
	return append([]string{}, genericContent...)
}

// NoiseSelectors returns the selectors removed before text extraction.
func NoiseSelectors(platform Platform) []string {
	noise := append([]string{}, commonNoise...)
	for _, rule := range platformRules {
		if rule.platform == platform {
			noise = append(noise, rule.noise...)
		}
	}
	return noise
}
