// Package render turns a recipe record into an output document.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/use-agent/recipy/models"
)

// Render dispatches on format: "html" (also the default for ""),
// "markdown" or "json".
func Render(rec *models.Recipe, format string) (string, error) {
	switch format {
	case models.FormatHTML, "":
		return HTML(rec)
	case models.FormatMarkdown:
		return Markdown(rec)
	case models.FormatJSON:
		return JSON(rec)
	default:
		return "", models.NewRecipeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown format %q, want html, markdown or json", format), nil)
	}
}

// JSON renders rec as indented JSON.
func JSON(rec *models.Recipe) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render: json: %w", err)
	}
	return string(data) + "\n", nil
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case models.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case models.FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}
