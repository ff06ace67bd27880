// Package link recognizes media links in free text and identifies their platform.
package link

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/liuran001/tunebot/bot"
)

// Platform identifies the source of a media link.
type Platform string

const (
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Likee     Platform = "likee"
	Unknown   Platform = "unknown"
)

// Supported reports whether links of this platform are queued for download.
func (p Platform) Supported() bool {
	switch p {
	case YouTube, TikTok, Instagram, Facebook, Likee:
		return true
	default:
		return false
	}
}

var linkPattern = regexp.MustCompile(
	`(?i)\b(?:https?://)?(?:[a-z0-9-]+\.)*` +
		`(?:youtube\.com|youtu\.be|tiktok\.com|instagram\.com|facebook\.com|fb\.watch|likee\.video)\b` +
		`(?:/\S*)?`,
)

// supportedDomains is wider than linkPattern: queue entries may come from other producers.
var supportedDomains = []string{
	"youtube.com", "youtu.be", "tiktok.com", "instagram.com", "facebook.com",
	"soundcloud.com", "likee.video", "twitter.com", "x.com",
}

// Link is a classified media link.
type Link struct {
	Raw      string
	URL      string
	Platform Platform
}

// Find returns the first platform link in text.
func Find(text string) (string, bool) {
	match := linkPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// Detect classifies a URL by its domain.
func Detect(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return YouTube
	case strings.Contains(lower, "tiktok.com"):
		return TikTok
	case strings.Contains(lower, "instagram.com"):
		return Instagram
	case strings.Contains(lower, "facebook.com"), strings.Contains(lower, "fb.watch"):
		return Facebook
	case strings.Contains(lower, "likee.video"):
		return Likee
	default:
		return Unknown
	}
}

// IsSupportedMediaURL reports whether the URL host belongs to a downloadable domain.
func IsSupportedMediaURL(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, domain := range supportedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(withScheme(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func withScheme(rawURL string) string {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}

// Resolver follows redirects of short links.
type Resolver struct {
	client  *retryablehttp.Client
	timeout time.Duration
	logger  bot.Logger
}

// NewResolver creates a resolver whose whole lookup is bounded by timeout.
func NewResolver(timeout time.Duration, logger bot.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 500 * time.Millisecond
	client.Logger = nil
	client.HTTPClient.Timeout = timeout

	return &Resolver{client: client, timeout: timeout, logger: logger}
}

// Resolve returns the final URL after redirects, or the input when resolution fails.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	target := withScheme(strings.TrimSpace(rawURL))
	if r == nil || r.client == nil {
		return target
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		r.logResolveError(target, err)
		return target
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logResolveError(target, err)
		return target
	}
	defer resp.Body.Close()

	if resp.Request == nil || resp.Request.URL == nil {
		return target
	}
	return resp.Request.URL.String()
}

func (r *Resolver) logResolveError(target string, err error) {
	if r.logger != nil {
		r.logger.Warn("resolve redirect failed", "url", target, "error", err)
	}
}

// Classifier combines Find, Resolve and Detect.
type Classifier struct {
	Resolver *Resolver
}

// Classify extracts, resolves and classifies the first link in text.
// ok is false when the text holds no platform link and should be searched instead.
func (c *Classifier) Classify(ctx context.Context, text string) (Link, bool) {
	raw, ok := Find(text)
	if !ok {
		return Link{}, false
	}
	var resolver *Resolver
	if c != nil {
		resolver = c.Resolver
	}
	resolved := resolver.Resolve(ctx, raw)
	return Link{Raw: raw, URL: resolved, Platform: Detect(resolved)}, true
}
