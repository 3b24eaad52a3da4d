package extractor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/recipy/models"
)

// ErrNoMatch is wrapped by strategies that found nothing to work with.
// Any other error from a strategy is final.
var ErrNoMatch = errors.New("no match")

// Strategy locates recipe data in a document.
type Strategy interface {
	Name() string

	// Extract returns the recipe, an error wrapping ErrNoMatch when the
	// document does not carry the data this strategy looks for, or a
	// final error.
	Extract(doc *goquery.Document) (*models.Recipe, error)
}

// Extractor tries its strategies in order; the first success wins.
type Extractor struct {
	strategies []Strategy
}

// New returns an Extractor over strategies. Without arguments it uses the
// default chain: JSON-LD, then the HTML microformat.
func New(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = []Strategy{JSONLD{}, Microformat{}}
	}
	return &Extractor{strategies: strategies}
}

// Extract runs the strategy chain over doc. If every strategy misses, the
// result is RECIPE_NOT_FOUND wrapping each miss.
func (e *Extractor) Extract(doc *goquery.Document) (*models.Recipe, error) {
	var misses []error
	for _, s := range e.strategies {
		rec, err := s.Extract(doc)
		switch {
		case err == nil:
			slog.Debug("recipe extracted", "strategy", s.Name(), "title", rec.Title)
			return rec, nil
		case errors.Is(err, ErrNoMatch):
			slog.Debug("strategy missed", "strategy", s.Name(), "reason", err)
			misses = append(misses, fmt.Errorf("%s: %w", s.Name(), err))
		default:
			return nil, err
		}
	}

	return nil, models.NewRecipeError(
		models.ErrCodeRecipeNotFound,
		"couldn't find recipe in html",
		errors.Join(misses...),
	)
}
