package extractor

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse builds a queryable document from raw HTML. When pageURL parses, it
// is stored as the document URL and relative image URLs are resolved
// against it during extraction.
func Parse(body []byte, pageURL string) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extractor: parse html: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
			doc.Url = u
		}
	}
	return doc, nil
}
