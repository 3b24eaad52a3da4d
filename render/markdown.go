package render

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/use-agent/recipy/models"
)

// mdConverter is goroutine-safe and shared by all calls.
//
//   - base plugin: drops head, title, meta and comments.
//   - commonmark plugin: headings, paragraphs, images and links.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// Markdown renders rec as Markdown by converting its HTML rendering.
// Relative links and images are resolved against the recipe's source URL.
func Markdown(rec *models.Recipe) (string, error) {
	page, err := HTML(rec)
	if err != nil {
		return "", err
	}

	var md string
	if rec.Source.URL != "" {
		md, err = mdConverter.ConvertString(page, converter.WithDomain(rec.Source.URL))
	} else {
		md, err = mdConverter.ConvertString(page)
	}
	if err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return md + "\n", nil
}
