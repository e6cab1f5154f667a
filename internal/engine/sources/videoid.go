package sources

import (
	"net/url"
	"regexp"
	"strings"
)

// Video ID extraction. Accepts full watch/share/embed URL forms and
// bare 11-character IDs.

var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	}
	bareVideoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

var validHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// ExtractVideoID pulls the 11-char video ID out of any supported YouTube
// URL form, or validates a bare ID. Returns "" for anything unrecognized,
// including URLs on non-YouTube hosts.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if !validHosts[u.Host] && strings.Contains(u.Host, ".") {
			return ""
		}
	}

	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(raw); len(m) >= 2 {
			return m[1]
		}
	}

	if bareVideoIDRE.MatchString(raw) {
		return raw
	}
	return ""
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
