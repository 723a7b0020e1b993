package link

import "strings"

// NormalizeURL prefixes https:// when no scheme is present. The stored URL
// otherwise keeps its original form, including case.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}

// Classify derives the record type and platform from a URL. Matching is a
// case-insensitive substring test, checked in fixed priority order; the
// first match wins. Plain instagram.com/p/ posts are deliberately not
// classified as video, only reels and IGTV are.
func Classify(url string) (Type, Platform) {
	lower := strings.ToLower(url)

	switch {
	case strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be"):
		return TypeVideo, PlatformYouTube
	case strings.Contains(lower, "instagram.com") &&
		(strings.Contains(lower, "/reel/") || strings.Contains(lower, "/tv/")):
		return TypeVideo, PlatformInstagram
	case strings.Contains(lower, "tiktok.com"):
		return TypeVideo, PlatformTikTok
	default:
		return TypeLink, PlatformOther
	}
}
