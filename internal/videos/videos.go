// Package videos recognizes property-tour video URLs from the two supported
// hosts and turns them into embeddable references. Unrecognized URLs are not
// form errors; they are simply excluded from preview and submission embedding.
package videos

import (
	"fmt"
	"regexp"
)

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=)([\w-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([\w-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([\w-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/shorts/)([\w-]{11})`),
}

var vimeoPattern = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)

// Embed is a playable reference for a recognized video URL.
type Embed struct {
	Provider string `json:"provider"` // "youtube" or "vimeo"
	VideoID  string `json:"video_id"`
	EmbedURL string `json:"embed_url"`
}

// Recognize matches a raw URL against the known host patterns. ok=false for
// anything else, including direct file links.
func Recognize(raw string) (*Embed, bool) {
	if raw == "" {
		return nil, false
	}
	for _, re := range youtubePatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return &Embed{
				Provider: "youtube",
				VideoID:  m[1],
				EmbedURL: fmt.Sprintf("https://www.youtube.com/embed/%s", m[1]),
			}, true
		}
	}
	if m := vimeoPattern.FindStringSubmatch(raw); m != nil {
		return &Embed{
			Provider: "vimeo",
			VideoID:  m[1],
			EmbedURL: fmt.Sprintf("https://player.vimeo.com/video/%s", m[1]),
		}, true
	}
	return nil, false
}

// IsRecognized reports whether the URL resolves to a supported host.
func IsRecognized(raw string) bool {
	_, ok := Recognize(raw)
	return ok
}
