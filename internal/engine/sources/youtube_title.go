package sources

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// Video title lookup, used to enrich the markdown output document.

// FetchVideoTitle returns the title of a video from its watch page,
// preferring videoDetails in ytInitialPlayerResponse and falling back to
// the page <title> element.
func FetchVideoTitle(ctx context.Context, videoID string) (string, error) {
	body, err := fetchWatchPage(ctx, videoID)
	if err != nil {
		return "", err
	}

	if playerResp, err := playerRespFromWatchPage(body); err == nil {
		if vd := playerResp.VideoDetails; vd != nil && vd.Title != "" {
			return vd.Title, nil
		}
	}

	if title := findHTMLTitle(body); title != "" {
		return title, nil
	}
	return "", errors.New("no title in watch page")
}

// findHTMLTitle parses HTML and returns the first <title> element's text,
// with YouTube's " - YouTube" suffix stripped.
func findHTMLTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = n.FirstChild.Data
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, " - YouTube")
	return strings.TrimSpace(title)
}
