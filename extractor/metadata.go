package extractor

import (
	"bytes"
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// PageInfo is page-level metadata used for attribution.
type PageInfo struct {
	Title    string
	SiteName string
}

// PageMetadata runs the Mozilla Readability algorithm over body to find the
// page title and site name. It never fails: on any problem the result is
// empty (or holds only the host name) and the reason is logged.
func PageMetadata(body []byte, pageURL string) PageInfo {
	parsedURL, err := nurl.Parse(pageURL)
	if err != nil || !parsedURL.IsAbs() {
		slog.Debug("readability: invalid source URL, skipping metadata",
			"url", pageURL, "error", err,
		)
		return PageInfo{}
	}

	info := PageInfo{SiteName: strings.TrimPrefix(parsedURL.Hostname(), "www.")}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		slog.Debug("readability: extraction failed, using host name",
			"url", pageURL, "error", err,
		)
		return info
	}

	info.Title = strings.TrimSpace(article.Title)
	if site := strings.TrimSpace(article.SiteName); site != "" {
		info.SiteName = site
	}
	return info
}
